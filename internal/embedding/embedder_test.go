package embedding

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

type fakeModel struct {
	vec   []float32
	err   error
	calls int
}

func (f *fakeModel) EmbedQuery(_ context.Context, _ string) ([]float32, error) {
	f.calls++
	return f.vec, f.err
}

func testEmbedder(models ...model) *GoogleEmbedder {
	return &GoogleEmbedder{models: models, dimensions: 768, logger: zap.NewNop()}
}

func TestGoogleEmbed_firstModelWins(t *testing.T) {
	first := &fakeModel{vec: []float32{1, 2, 3}}
	second := &fakeModel{vec: []float32{9, 9, 9}}
	g := testEmbedder(model{"a", first}, model{"b", second})

	vec, err := g.Embed(context.Background(), "2 bhk apartment")
	if err != nil {
		t.Fatal(err)
	}
	if vec[0] != 1 {
		t.Errorf("unexpected vector: %v", vec)
	}
	if second.calls != 0 {
		t.Error("second model must not be consulted when the first succeeds")
	}
}

func TestGoogleEmbed_fallsBackPastFailures(t *testing.T) {
	first := &fakeModel{err: errors.New("quota exceeded")}
	second := &fakeModel{vec: nil} // empty vector also counts as failure
	third := &fakeModel{vec: []float32{0.5}}
	g := testEmbedder(model{"a", first}, model{"b", second}, model{"c", third})

	vec, err := g.Embed(context.Background(), "villa near school")
	if err != nil {
		t.Fatal(err)
	}
	if len(vec) != 1 || vec[0] != 0.5 {
		t.Errorf("unexpected vector: %v", vec)
	}
	if first.calls != 1 || second.calls != 1 {
		t.Error("both failing models should have been tried once")
	}
}

func TestGoogleEmbed_exhaustionIsError(t *testing.T) {
	g := testEmbedder(
		model{"a", &fakeModel{err: errors.New("down")}},
		model{"b", &fakeModel{err: errors.New("also down")}},
	)
	if _, err := g.Embed(context.Background(), "flat"); err == nil {
		t.Fatal("expected error when every model fails")
	}
}

func TestNewGoogleEmbedder_emptyKey(t *testing.T) {
	_, err := NewGoogleEmbedder(context.Background(), "", []string{"m"}, 768, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for empty api key")
	}
}

func TestMockEmbedder_deterministic(t *testing.T) {
	e := NewMockEmbedder(768)
	a, err := e.Embed(context.Background(), "lakeside villa")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := e.Embed(context.Background(), "lakeside villa")
	c, _ := e.Embed(context.Background(), "studio flat")

	if len(a) != 768 {
		t.Fatalf("len = %d, want 768", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("same text must produce the same embedding")
		}
	}
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different texts should produce different embeddings")
	}
}
