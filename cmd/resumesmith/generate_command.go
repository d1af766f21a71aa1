package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"resumesmith/internal/config"
	"resumesmith/internal/generation"
	"resumesmith/internal/payload"
	"resumesmith/internal/services"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var (
		briefFlag     string
		briefFile     string
		attachFlags   []string
		avatarFlag    string
		qrFlag        string
		accentFlag    string
		noAccentHint  bool
		modelFlag     string
		maxTokensFlag int
		tempFlag      float64
		outFlag       string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an HTML resume from a brief",
		Long: `Generate an HTML resume from a professional brief.

The brief comes from --brief, --brief-file, or stdin (in that order of
precedence). Attachments are sent to the model as context; the avatar and
QR images are additionally inlined into the final document.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			brief, err := resolveBrief(cmd.InOrStdin(), briefFlag, briefFile)
			if err != nil {
				return err
			}

			input := generation.Input{
				Brief:             brief,
				AccentColor:       accentFlag,
				IncludeAccentHint: !noAccentHint,
				Model:             modelFlag,
				MaxOutputTokens:   maxTokensFlag,
				Temperature:       tempFlag,
			}
			for _, path := range attachFlags {
				att, err := loadAttachment(path)
				if err != nil {
					return err
				}
				input.Attachments = append(input.Attachments, att)
			}
			if avatarFlag != "" {
				att, err := loadAttachment(avatarFlag)
				if err != nil {
					return err
				}
				input.Avatar = &att
			}
			if qrFlag != "" {
				att, err := loadAttachment(qrFlag)
				if err != nil {
					return err
				}
				input.QR = &att
			}

			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}
			svc, err := ctx.newGenerationService(logger)
			if err != nil {
				return err
			}

			result, err := svc.Generate(cmd.Context(), input)
			if err != nil {
				return renderTaxonomyError(err)
			}

			if outFlag == "" || outFlag == "-" {
				fmt.Fprintln(cmd.OutOrStdout(), result.HTML)
				return nil
			}
			target, err := config.ExpandPath(outFlag)
			if err != nil {
				return fmt.Errorf("resolve output path: %w", err)
			}
			if err := os.WriteFile(target, []byte(result.HTML), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote resume to %s (request %s)\n", target, result.RequestID)
			return nil
		},
	}

	cmd.Flags().StringVar(&briefFlag, "brief", "", "Professional brief text")
	cmd.Flags().StringVar(&briefFile, "brief-file", "", "Read the brief from a file")
	cmd.Flags().StringArrayVar(&attachFlags, "attach", nil, "Context attachment (image or PDF); repeatable")
	cmd.Flags().StringVar(&avatarFlag, "avatar", "", "Profile photo inlined into the resume")
	cmd.Flags().StringVar(&qrFlag, "qr", "", "LinkedIn QR code inlined into the resume")
	cmd.Flags().StringVar(&accentFlag, "accent", "", "Accent color as #RRGGBB")
	cmd.Flags().BoolVar(&noAccentHint, "no-accent-hint", false, "Do not mention the accent color to the model")
	cmd.Flags().StringVar(&modelFlag, "model", "", "Model to use (see `resumesmith models`)")
	cmd.Flags().IntVar(&maxTokensFlag, "max-tokens", 0, "Output token budget")
	cmd.Flags().Float64Var(&tempFlag, "temperature", 0, "Sampling temperature")
	cmd.Flags().StringVarP(&outFlag, "out", "o", "", "Output file (default stdout)")

	return cmd
}

func resolveBrief(stdin io.Reader, briefFlag, briefFile string) (string, error) {
	if strings.TrimSpace(briefFlag) != "" {
		return briefFlag, nil
	}
	if briefFile != "" {
		expanded, err := config.ExpandPath(briefFile)
		if err != nil {
			return "", fmt.Errorf("resolve brief path: %w", err)
		}
		data, err := os.ReadFile(expanded)
		if err != nil {
			return "", fmt.Errorf("read brief: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read brief from stdin: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("no brief provided: use --brief, --brief-file, or pipe text on stdin")
	}
	return string(data), nil
}

func loadAttachment(path string) (payload.Attachment, error) {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return payload.Attachment{}, fmt.Errorf("resolve attachment path: %w", err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return payload.Attachment{}, fmt.Errorf("read attachment: %w", err)
	}
	name := expanded
	if idx := strings.LastIndexByte(name, '/'); idx >= 0 {
		name = name[idx+1:]
	}
	return payload.Attachment{
		Filename: name,
		MimeType: payload.MimeForFilename(name),
		Data:     data,
	}, nil
}

// renderTaxonomyError turns a classified failure into a CLI error with the
// operator hint attached.
func renderTaxonomyError(err error) error {
	kind := services.KindOf(err)
	if hint := kind.Hint(); hint != "" {
		return fmt.Errorf("%w\nhint: %s", err, hint)
	}
	return err
}
