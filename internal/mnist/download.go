package mnist

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
)

// DefaultMirror serves the gzipped IDX files.
const DefaultMirror = "https://storage.googleapis.com/cvdf-datasets/mnist/"

// sha256 digests of the published gzipped archives.
var archiveDigests = map[string]string{
	TrainImagesFile + ".gz": "440fcabf73cc546fa21475e81ea370265605f56be210a4024d2ca8f203523609",
	TrainLabelsFile + ".gz": "3552534a0a558bbed6aed32b30c495cca23d567ec52cac8be1a0730e8010255c",
	TestImagesFile + ".gz":  "8d422c7b0a1c1c79245a5bcf07fe86e33eeafee792b84584aec276f5a2dbc4e6",
	TestLabelsFile + ".gz":  "f7ae60f92e00ec6debd23a6088c31dbd2371eca3ffa0defaefb259924204aec6",
}

// Download fetches any archive missing from dir.
//
// Existing archives are verified against their known digest; a mismatch is an
// error rather than a silent re-download. An empty mirror selects DefaultMirror.
func Download(ctx context.Context, dir, mirror string) error {
	if mirror == "" {
		mirror = DefaultMirror
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	for _, name := range []string{TrainImagesFile, TrainLabelsFile, TestImagesFile, TestLabelsFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			continue
		}

		archive := name + ".gz"
		path := filepath.Join(dir, archive)
		if _, err := os.Stat(path); err == nil {
			if err := verifyFile(path, archiveDigests[archive]); err != nil {
				return err
			}
			continue
		}

		log.Printf("downloading %s%s", mirror, archive)
		if err := fetch(ctx, mirror+archive, path, archiveDigests[archive]); err != nil {
			return fmt.Errorf("download %s: %w", archive, err)
		}
	}
	return nil
}

func fetch(ctx context.Context, url, path, digest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.part")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(tmp, h), resp.Body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if got := hex.EncodeToString(h.Sum(nil)); digest != "" && got != digest {
		return fmt.Errorf("%w: got %s, want %s", ErrChecksum, got, digest)
	}
	return os.Rename(tmp.Name(), path)
}

func verifyFile(path, digest string) error {
	if digest == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return err
	}
	if got := hex.EncodeToString(h.Sum(nil)); got != digest {
		return fmt.Errorf("%s: %w", filepath.Base(path), ErrChecksum)
	}
	return nil
}
