package generation

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"resumesmith/internal/config"
	"resumesmith/internal/imaging"
	"resumesmith/internal/payload"
	"resumesmith/internal/services"
	"resumesmith/internal/services/openai"
)

const validDoc = "<!doctype html><html><head></head><body>ok</body></html>"

type fakeDispatcher struct {
	calls    int
	lastReq  openai.Request
	response string
	err      error
}

func (f *fakeDispatcher) CreateResponse(_ context.Context, req openai.Request) (string, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.OpenAI.APIKey = "test-key"
	return &cfg
}

func testService(dispatcher Dispatcher, cfg *config.Config) *Service {
	normalizer := imaging.New(cfg.Attachments.MaxImageSide, cfg.Attachments.JPEGQuality, cfg.Attachments.MaxFileBytes)
	return NewService(cfg, dispatcher, normalizer, nil)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 30, G: 58, B: 110, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestGenerateBriefOnly(t *testing.T) {
	dispatcher := &fakeDispatcher{response: validDoc}
	svc := testService(dispatcher, testConfig())

	brief := strings.Repeat("experienced data analyst ", 10)
	result, err := svc.Generate(context.Background(), Input{
		Brief:             brief,
		AccentColor:       "#336699",
		IncludeAccentHint: true,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if dispatcher.calls != 1 {
		t.Fatalf("expected a single dispatch, got %d", dispatcher.calls)
	}
	if result.HTML != validDoc {
		t.Fatalf("unexpected html %q", result.HTML)
	}
	if result.RequestID == "" {
		t.Fatal("expected a request id")
	}
	if result.Model != "gpt-4.1-mini" {
		t.Fatalf("expected default model, got %q", result.Model)
	}

	if len(dispatcher.lastReq.Blocks) != 1 {
		t.Fatalf("expected a single text block, got %d", len(dispatcher.lastReq.Blocks))
	}
	text, ok := dispatcher.lastReq.Blocks[0].(payload.TextBlock)
	if !ok {
		t.Fatalf("expected text block, got %T", dispatcher.lastReq.Blocks[0])
	}
	if !strings.Contains(text.Text, "Preferred accent color: #336699") {
		t.Fatalf("expected accent hint in user text, got %q", text.Text)
	}
	if dispatcher.lastReq.SystemInstructions == "" {
		t.Fatal("expected embedded system instructions")
	}
}

func TestGenerateRejectsOverlongBrief(t *testing.T) {
	cfg := testConfig()
	dispatcher := &fakeDispatcher{response: validDoc}
	svc := testService(dispatcher, cfg)

	_, err := svc.Generate(context.Background(), Input{
		Brief: strings.Repeat("x", cfg.Generation.MaxBriefLength+1),
	})
	if !services.IsKind(err, services.KindBriefTooLong) {
		t.Fatalf("expected brief too long, got %v", err)
	}
	if dispatcher.calls != 0 {
		t.Fatal("overlong brief must not reach the dispatcher")
	}
}

func TestGenerateRejectsBadAccentColor(t *testing.T) {
	svc := testService(&fakeDispatcher{response: validDoc}, testConfig())
	for _, color := range []string{"blue", "#12345", "#GGGGGG", "red"} {
		_, err := svc.Generate(context.Background(), Input{Brief: "brief", AccentColor: color})
		if !services.IsKind(err, services.KindInvalidColor) {
			t.Fatalf("color %q: expected invalid color, got %v", color, err)
		}
	}
}

func TestGenerateRejectsUnknownModel(t *testing.T) {
	svc := testService(&fakeDispatcher{response: validDoc}, testConfig())
	_, err := svc.Generate(context.Background(), Input{Brief: "brief", Model: "gpt-imaginary"})
	if !services.IsKind(err, services.KindUnsupportedModel) {
		t.Fatalf("expected unsupported model, got %v", err)
	}
}

func TestGenerateClampsTokenBudget(t *testing.T) {
	cfg := testConfig()
	dispatcher := &fakeDispatcher{response: validDoc}
	svc := testService(dispatcher, cfg)

	if _, err := svc.Generate(context.Background(), Input{Brief: "brief", MaxOutputTokens: 50}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got := dispatcher.lastReq.MaxOutputTokens; got != cfg.Generation.MinTokens {
		t.Fatalf("expected clamp to %d, got %d", cfg.Generation.MinTokens, got)
	}

	if _, err := svc.Generate(context.Background(), Input{Brief: "brief", MaxOutputTokens: 999999}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got := dispatcher.lastReq.MaxOutputTokens; got != cfg.Generation.MaxTokens {
		t.Fatalf("expected clamp to %d, got %d", cfg.Generation.MaxTokens, got)
	}
}

func TestGenerateRejectsNonHTMLResponse(t *testing.T) {
	dispatcher := &fakeDispatcher{response: "Sure! Here is your resume:\n<!doctype html>..."}
	svc := testService(dispatcher, testConfig())
	_, err := svc.Generate(context.Background(), Input{Brief: "brief"})
	if !services.IsKind(err, services.KindInvalidHTMLResponse) {
		t.Fatalf("expected invalid html response, got %v", err)
	}
}

func TestGeneratePropagatesDispatchErrors(t *testing.T) {
	dispatcher := &fakeDispatcher{err: services.NewError(services.KindRetriesExhausted, "gave up")}
	svc := testService(dispatcher, testConfig())
	_, err := svc.Generate(context.Background(), Input{Brief: "brief"})
	if !services.IsKind(err, services.KindRetriesExhausted) {
		t.Fatalf("expected retries exhausted, got %v", err)
	}
}

func TestGenerateSendsAttachmentsBeforeText(t *testing.T) {
	dispatcher := &fakeDispatcher{response: validDoc}
	svc := testService(dispatcher, testConfig())

	_, err := svc.Generate(context.Background(), Input{
		Brief: "brief",
		Attachments: []payload.Attachment{
			{Filename: "photo.png", MimeType: "image/png", Data: pngBytes(t, 8, 8)},
			{Filename: "cv.pdf", MimeType: "application/pdf", Data: []byte("%PDF-1.4")},
		},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	blocks := dispatcher.lastReq.Blocks
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}
	if _, ok := blocks[0].(payload.ImageBlock); !ok {
		t.Fatalf("expected image block first, got %T", blocks[0])
	}
	if _, ok := blocks[1].(payload.FileBlock); !ok {
		t.Fatalf("expected file block second, got %T", blocks[1])
	}
	if _, ok := blocks[2].(payload.TextBlock); !ok {
		t.Fatalf("expected text block last, got %T", blocks[2])
	}
}

func TestGenerateAppliesAvatarAndQROverrides(t *testing.T) {
	doc := `<!doctype html><html><body><img src="avatar.png"><img src="qr.png"></body></html>`
	dispatcher := &fakeDispatcher{response: doc}
	svc := testService(dispatcher, testConfig())

	avatar := payload.Attachment{Filename: "me.png", MimeType: "image/png", Data: pngBytes(t, 8, 8)}
	qr := payload.Attachment{Filename: "linkedin.png", MimeType: "image/png", Data: pngBytes(t, 4, 4)}
	result, err := svc.Generate(context.Background(), Input{Brief: "brief", Avatar: &avatar, QR: &qr})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if strings.Contains(result.HTML, `src="avatar.png"`) || strings.Contains(result.HTML, `src="qr.png"`) {
		t.Fatalf("expected placeholders replaced, got %q", result.HTML)
	}
	if !strings.Contains(result.HTML, "data:image/png;base64,") {
		t.Fatal("expected inline data uris in output")
	}
	text, ok := dispatcher.lastReq.Blocks[len(dispatcher.lastReq.Blocks)-1].(payload.TextBlock)
	if !ok {
		t.Fatalf("expected trailing text block, got %T", dispatcher.lastReq.Blocks[len(dispatcher.lastReq.Blocks)-1])
	}
	if !strings.Contains(text.Text, `src="avatar.png"`) || !strings.Contains(text.Text, `src="qr.png"`) {
		t.Fatalf("expected placeholder instructions in user text, got %q", text.Text)
	}
}

func TestGenerateRejectsUnsupportedAttachment(t *testing.T) {
	svc := testService(&fakeDispatcher{response: validDoc}, testConfig())
	_, err := svc.Generate(context.Background(), Input{
		Brief: "brief",
		Attachments: []payload.Attachment{
			{Filename: "notes.docx", MimeType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document", Data: []byte("x")},
		},
	})
	if !services.IsKind(err, services.KindUnsupportedFormat) {
		t.Fatalf("expected unsupported format, got %v", err)
	}
}
