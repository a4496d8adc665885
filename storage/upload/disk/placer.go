package disk

import (
	"context"
	"io"
	"math/rand"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/classdrop/core"
	"github.com/trezcool/classdrop/core/coursework"
)

const (
	filePerm = 0o644
	dirPerm  = 0o755

	maxRandSuffix = 1e9
	fallbackName  = "file"
)

var (
	NowFunc      = time.Now                                           // mockable
	randSuffixFn = func() int { return rand.Intn(maxRandSuffix + 1) } // mockable
)

// Placer stores uploaded files in a single directory served at a public URL prefix.
type Placer struct {
	dir       string
	urlPrefix string
}

var _ coursework.UploadPlacer = (*Placer)(nil) // interface compliance check

func NewPlacer(dir, urlPrefix string) (*Placer, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(err, "resolving upload dir")
	}
	return &Placer{
		dir:       absDir,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
	}, nil
}

func (p *Placer) Dir() string { return p.dir }

// Place writes r to a new file named `<unixMillis>-<random>-<originalName>`.
// Names are not retried on collision: the file is created exclusively and a clash is reported as an error.
func (p *Placer) Place(ctx context.Context, originalName string, r io.Reader) (coursework.PlacedFile, error) {
	if err := ctx.Err(); err != nil {
		return coursework.PlacedFile{}, err
	}
	if err := os.MkdirAll(p.dir, dirPerm); err != nil {
		return coursework.PlacedFile{}, core.NewStorageError("creating upload dir", p.dir, err)
	}

	name := StoredName(originalName)
	fp := filepath.Join(p.dir, name)
	f, err := os.OpenFile(fp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		return coursework.PlacedFile{}, core.NewStorageError("creating upload", fp, err)
	}

	size, err := io.Copy(f, r)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(fp)
		return coursework.PlacedFile{}, core.NewStorageError("writing upload", fp, err)
	}
	if err = f.Close(); err != nil {
		_ = os.Remove(fp)
		return coursework.PlacedFile{}, core.NewStorageError("closing upload", fp, err)
	}

	return coursework.PlacedFile{
		Path:        fp,
		StoredName:  name,
		DownloadURL: p.DownloadURL(name),
		Size:        size,
	}, nil
}

// DownloadURL is the public path a stored file is served from, escaped for use in a URL.
func (p *Placer) DownloadURL(storedName string) string {
	return p.urlPrefix + "/" + url.PathEscape(storedName)
}

// ListStored returns the names of all stored files, sorted.
func (p *Placer) ListStored() ([]string, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, core.NewStorageError("listing uploads", p.dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Remove deletes a stored file.
func (p *Placer) Remove(storedName string) error {
	if storedName != filepath.Base(storedName) {
		return errors.Errorf("invalid stored name %q", storedName)
	}
	fp := filepath.Join(p.dir, storedName)
	if err := os.Remove(fp); err != nil {
		return core.NewStorageError("removing upload", fp, err)
	}
	return nil
}

// StoredName builds the collision-resistant name for an upload: time prefix, random number, original base name.
func StoredName(originalName string) string {
	return strconv.FormatInt(NowFunc().UnixMilli(), 10) + "-" + strconv.Itoa(randSuffixFn()) + "-" + baseName(originalName)
}

// baseName drops any directory part a client may send along with the file name.
func baseName(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	switch name {
	case ".", "..", "/", "":
		return fallbackName
	}
	return name
}
