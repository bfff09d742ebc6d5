package config

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestReport_NilReceiverSafe(t *testing.T) {
	var r *Report

	// must not panic when reporting was not requested
	r.Store("name", "path")
	r.StoreData("name", []byte("data"))
	if r.Name() != "" {
		t.Error("expected empty name for nil report")
	}
	if err := r.Close(); err != nil {
		t.Errorf("expected nil error for nil report, got %v", err)
	}
}

func TestReport_Archive(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "report.zip")
	conf := &ReporterConfig{Destination: dest}

	rpt, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if rpt.Name() != dest {
		t.Errorf("Name() = %q, want %q", rpt.Name(), dest)
	}

	srcFile := filepath.Join(t.TempDir(), "input.vue")
	if err := os.WriteFile(srcFile, []byte("<template><div/></template>"), 0644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	rpt.StoreData("output/widget.css", []byte(".a[data-v-x] { color: red; }\n"))
	rpt.Store("input/input.vue", srcFile)
	rpt.Store("input/missing.vue", filepath.Join(t.TempDir(), "gone.vue"))

	if err := rpt.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	zr, err := zip.OpenReader(dest)
	if err != nil {
		t.Fatalf("expected readable zip archive: %v", err)
	}
	defer zr.Close()

	contents := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		contents[f.Name] = string(data)
	}

	manifest, ok := contents["MANIFEST"]
	if !ok {
		t.Fatal("expected MANIFEST in archive")
	}
	for _, name := range []string{"output/widget.css", "input/input.vue", "input/missing.vue"} {
		if !strings.Contains(manifest, name) {
			t.Errorf("expected %q listed in manifest:\n%s", name, manifest)
		}
	}

	if got := contents["output/widget.css"]; got != ".a[data-v-x] { color: red; }\n" {
		t.Errorf("unexpected stored data: %q", got)
	}
	if got := contents["input/input.vue"]; got != "<template><div/></template>" {
		t.Errorf("unexpected stored file content: %q", got)
	}
	// absent files are listed in the manifest but silently skipped
	if _, exists := contents["input/missing.vue"]; exists {
		t.Error("expected missing file to be skipped")
	}
}

func TestReport_ConcurrentStores(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "report.zip")
	conf := &ReporterConfig{Destination: dest}

	rpt, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	// compilation workers store artifacts from the pool concurrently
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("output/component-%02d.css", i)
			rpt.StoreData(name, []byte(".a { color: red; }\n"))
			rpt.StoreData("shared/log.txt", []byte("entry"))
		}(i)
	}
	wg.Wait()

	if err := rpt.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	zr, err := zip.OpenReader(dest)
	if err != nil {
		t.Fatalf("expected readable zip archive: %v", err)
	}
	defer zr.Close()

	stored := make(map[string]bool)
	for _, f := range zr.File {
		stored[f.Name] = true
	}
	for i := 0; i < 16; i++ {
		name := fmt.Sprintf("output/component-%02d.css", i)
		if !stored[name] {
			t.Errorf("expected %q in archive", name)
		}
	}
}

func TestReport_StoreDataVersionsOnCollision(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "report.zip")
	conf := &ReporterConfig{Destination: dest}

	rpt, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	rpt.StoreData("log.txt", []byte("first"))
	rpt.StoreData("log.txt", []byte("second"))

	if err := rpt.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	zr, err := zip.OpenReader(dest)
	if err != nil {
		t.Fatalf("expected readable zip archive: %v", err)
	}
	defer zr.Close()

	var stored int
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "log.txt") {
			stored++
		}
	}
	if stored != 2 {
		t.Errorf("expected both stores kept under versioned names, got %d", stored)
	}
}
