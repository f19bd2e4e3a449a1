package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/porelab/porenet/pkg/project"
	"github.com/porelab/porenet/pkg/store"
)

func TestExpandProjectID(t *testing.T) {
	ctx := context.Background()
	st, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	defer st.Close(ctx)

	p, err := project.New("alpha")
	if err != nil {
		t.Fatalf("project.New() error: %v", err)
	}
	if err := st.Save(ctx, p); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	full := p.ID()

	t.Run("exact id", func(t *testing.T) {
		got, err := expandProjectID(ctx, st, full)
		if err != nil {
			t.Fatalf("expandProjectID() error: %v", err)
		}
		if got != full {
			t.Errorf("expandProjectID() = %q, want %q", got, full)
		}
	})

	t.Run("prefix expands", func(t *testing.T) {
		got, err := expandProjectID(ctx, st, full[:8])
		if err != nil {
			t.Fatalf("expandProjectID() error: %v", err)
		}
		if got != full {
			t.Errorf("expandProjectID(%q) = %q, want %q", full[:8], got, full)
		}
	})

	t.Run("unknown passes through", func(t *testing.T) {
		got, err := expandProjectID(ctx, st, "zzzz")
		if err != nil {
			t.Fatalf("expandProjectID() error: %v", err)
		}
		if got != "zzzz" {
			t.Errorf("expandProjectID(%q) = %q, want it unchanged", "zzzz", got)
		}
	})
}

func TestProjectTable(t *testing.T) {
	out := projectTable(testInfos(2))

	for _, want := range []string{"project-0", "project-1", "Name", "Modified"} {
		if !strings.Contains(out, want) {
			t.Errorf("projectTable() missing %q:\n%s", want, out)
		}
	}
}
