// Package container implements the versioned on-disk archive format for
// Arbor documents.
//
// A container is a zip archive with exactly two entries:
//
//   - manifest.json: a free-form metadata map holding at least a semantic
//     "version" string, and optionally an "id" and free-text "notes"
//   - tree.json: the root node in its nested-record form
//
// Reading gates on the major version component only: a container written by
// a newer major version fails with INCOMPATIBLE_FORMAT carrying the minimum
// version required, before the structural entry is touched. Minor and patch
// differences load silently. A missing entry, corrupt archive, or
// unparseable payload is reported as the same coarse INCOMPATIBLE_FORMAT
// kind; the format deliberately does not distinguish "too old", "corrupt"
// and "not this format" on read failure.
package container

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/arbordev/arbor/pkg/errors"
	"github.com/arbordev/arbor/pkg/tree"
)

// FormatVersion is the container format version stamped on every save.
const FormatVersion = "1.0.0"

const (
	manifestEntry = "manifest.json"
	treeEntry     = "tree.json"
)

// Manifest is the persisted metadata map. It always contains a "version"
// field; other keys are free-form.
type Manifest map[string]any

// Manifest keys with defined meaning.
const (
	KeyVersion = "version"
	KeyID      = "id"
	KeyNotes   = "notes"
)

// NewManifest returns a manifest pre-populated with the current format
// version.
func NewManifest() Manifest {
	return Manifest{KeyVersion: FormatVersion}
}

// Version returns the manifest's format version string.
func (m Manifest) Version() string {
	v, _ := m[KeyVersion].(string)
	return v
}

// ID returns the document identity, or empty if none has been assigned.
func (m Manifest) ID() string {
	v, _ := m[KeyID].(string)
	return v
}

// Notes returns the free-form notes text.
func (m Manifest) Notes() string {
	v, _ := m[KeyNotes].(string)
	return v
}

// SetNotes stores the free-form notes text.
func (m Manifest) SetNotes(notes string) {
	m[KeyNotes] = notes
}

// versionRe matches a dotted version with a leading numeric major component.
// Suffixed pre-release components ("1.0.0rc3") are accepted.
var versionRe = regexp.MustCompile(`^\d+(\.[0-9A-Za-z-]+)*$`)

// validateManifest checks the fields the codec depends on.
func validateManifest(m Manifest) error {
	return validation.Validate(m.Version(),
		validation.Required.Error("manifest has no version"),
		validation.Match(versionRe).Error("malformed version string"),
	)
}

// major extracts the major component of a semantic version string.
func major(version string) (int, error) {
	head, _, _ := strings.Cut(version, ".")
	return strconv.Atoi(head)
}

// Write encodes root and manifest as a container archive on w. The manifest
// is stamped with the current FormatVersion and, if it has none yet, a fresh
// document ID. A nil root encodes an empty document.
func Write(w io.Writer, root *tree.Record, manifest Manifest) error {
	manifest[KeyVersion] = FormatVersion
	if manifest.ID() == "" {
		manifest[KeyID] = uuid.NewString()
	}

	zw := zip.NewWriter(w)
	if err := writeEntry(zw, treeEntry, root); err != nil {
		zw.Close()
		return err
	}
	if err := writeEntry(zw, manifestEntry, manifest); err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	return nil
}

func writeEntry(zw *zip.Writer, name string, v any) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return nil
}

// WriteFile writes a container archive to path, replacing any existing file.
func WriteFile(path string, root *tree.Record, manifest Manifest) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, root, manifest); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// Read decodes a container archive. The returned manifest merges the decoded
// entries over the defaults from NewManifest. A nil record means the
// document was saved empty.
//
// All read failures surface as INCOMPATIBLE_FORMAT. When the container's
// major version exceeds the running codec's, the error carries the minimum
// version able to read the file (see [errors.MinVersion]) and tree.json is
// never read.
func Read(r io.ReaderAt, size int64) (*tree.Record, Manifest, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, nil, incompatible(err)
	}

	manifest := NewManifest()
	var loaded Manifest
	if err := readEntry(zr, manifestEntry, &loaded); err != nil {
		return nil, nil, err
	}
	for k, v := range loaded {
		manifest[k] = v
	}
	if err := validateManifest(manifest); err != nil {
		return nil, nil, incompatible(err)
	}

	theirs, err := major(manifest.Version())
	if err != nil {
		return nil, nil, incompatible(err)
	}
	ours, err := major(FormatVersion)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInternal, err, "malformed FormatVersion")
	}
	if theirs > ours {
		return nil, nil, errors.Wrap(errors.ErrCodeIncompatibleFormat,
			&errors.TooNewError{MinVersion: fmt.Sprintf("%d.0.0", theirs)},
			"this file is too new for Arbor %s", FormatVersion)
	}

	var root *tree.Record
	if err := readEntry(zr, treeEntry, &root); err != nil {
		return nil, nil, err
	}
	return root, manifest, nil
}

func readEntry(zr *zip.Reader, name string, v any) error {
	f, err := zr.Open(name)
	if err != nil {
		return incompatible(fmt.Errorf("open %s: %w", name, err))
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(v); err != nil {
		return incompatible(fmt.Errorf("decode %s: %w", name, err))
	}
	return nil
}

// ReadFile reads a container archive from path.
func ReadFile(path string) (*tree.Record, Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return Read(f, info.Size())
}

// incompatible wraps any read failure in the format's single coarse error
// kind.
func incompatible(cause error) error {
	return errors.Wrap(errors.ErrCodeIncompatibleFormat, cause,
		"invalid, very outdated, or damaged Arbor file")
}
