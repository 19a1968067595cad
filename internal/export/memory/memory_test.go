package memory

import (
	"context"
	"testing"
	"time"

	"github.com/DIEGO-rav10/UBELEZA/internal/core"
)

func TestAppendAndItems(t *testing.T) {
	s := New()
	ctx := context.Background()

	a := core.Archive{
		ID:   1,
		Date: time.Now(),
		Data: []byte(`{"archiveType":"Ciclo Completo","cycleEarnings":120.0}`),
	}

	ref, err := s.Append(ctx, a)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref != "mem:1" {
		t.Fatalf("row ref expected mem:1, got %q", ref)
	}

	items := s.Items()
	if len(items) != 1 || items[0].ID != 1 {
		t.Fatalf("expected 1 stored archive, got %v", items)
	}
}

func TestAppendRejectsUntypedDocument(t *testing.T) {
	s := New()

	a := core.Archive{ID: 2, Date: time.Now(), Data: []byte(`{"foo":1}`)}
	if _, err := s.Append(context.Background(), a); err == nil {
		t.Fatal("expected error for document without type discriminator")
	}
	if len(s.Items()) != 0 {
		t.Fatal("rejected archive must not be stored")
	}
}
