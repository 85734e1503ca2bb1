package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const report = `{"vmaf":[{"n":1,"vmaf":97.1}],"global":{"vmaf":{"vmaf":{"average":97.1,"median":97.5,"min":90,"max":100}},"psnr":{"psnr_avg":{"average":41.25}}}}`

func TestExtractGlobal(t *testing.T) {
	got, err := ExtractGlobal(report)
	if err != nil {
		t.Fatalf("ExtractGlobal: %v", err)
	}
	want := `{
    "vmaf": {
        "vmaf": {
            "average": 97.1,
            "median": 97.5,
            "min": 90,
            "max": 100
        }
    },
    "psnr": {
        "psnr_avg": {
            "average": 41.25
        }
    }
}`
	if string(got) != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestExtractGlobalEmpty(t *testing.T) {
	got, err := ExtractGlobal(`{"global": {}}`)
	if err != nil {
		t.Fatalf("ExtractGlobal: %v", err)
	}
	if string(got) != "{}" {
		t.Fatalf("got %q", got)
	}
}

func TestExtractGlobalNonFinite(t *testing.T) {
	got, err := ExtractGlobal(`{"global":{"psnr":{"psnr_avg":{"average":Infinity,"min":-Infinity,"stdev":NaN}}}}`)
	if err != nil {
		t.Fatalf("ExtractGlobal: %v", err)
	}
	want := `{
    "psnr": {
        "psnr_avg": {
            "average": Infinity,
            "min": -Infinity,
            "stdev": NaN
        }
    }
}`
	if string(got) != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestExtractGlobalKeepsTokensInsideStrings(t *testing.T) {
	got, err := ExtractGlobal(`{"global":{"note":"NaN \"Infinity\"","n":NaN}}`)
	if err != nil {
		t.Fatalf("ExtractGlobal: %v", err)
	}
	want := "{\n    \"note\": \"NaN \\\"Infinity\\\"\",\n    \"n\": NaN\n}"
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExtractGlobalErrors(t *testing.T) {
	if _, err := ExtractGlobal("not json"); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := ExtractGlobal(""); err == nil {
		t.Fatal("expected parse error for empty output")
	}
	if _, err := ExtractGlobal(`{"vmaf": []}`); !errors.Is(err, ErrNoGlobal) {
		t.Fatalf("expected ErrNoGlobal, got %v", err)
	}
}

func TestWriteGlobal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output-clip-metrics.txt")
	if err := WriteGlobal(`{"global":{"ssim":{"ssim_avg":{"average":0.99}}}}`, path); err != nil {
		t.Fatalf("WriteGlobal: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n    \"ssim\": {\n        \"ssim_avg\": {\n            \"average\": 0.99\n        }\n    }\n}"
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriteGlobalParseFailureWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output-clip-metrics.txt")
	if err := WriteGlobal("Traceback (most recent call last):", path); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("metrics file should not exist, stat err = %v", err)
	}
}
