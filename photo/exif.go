package photo

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
	"github.com/rwcarlsen/goexif/tiff"
)

func init() {
	exif.RegisterParsers(mknote.All...)
}

// maxUndefinedBytes caps opaque byte blobs kept in the sidecar.
const maxUndefinedBytes = 64

// MetadataParser reads embedded metadata from an image file. A nil or empty
// map means the file carries nothing worth recording.
type MetadataParser interface {
	Parse(path string) (map[string]any, error)
}

// ExifParser reads EXIF/TIFF metadata from JPEG, TIFF and TIFF-based RAW files.
type ExifParser struct{}

// Parse decodes the EXIF block of path into a flat field-name keyed map.
func (ExifParser) Parse(path string) (map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return nil, err
	}

	fields := exifFields{}
	if err := x.Walk(fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// exifFields implements exif.Walker.
type exifFields map[string]any

func (m exifFields) Walk(name exif.FieldName, tag *tiff.Tag) error {
	value, ok := tagValue(tag)
	if ok {
		m[string(name)] = value
	}
	return nil
}

// tagValue converts a TIFF tag into a JSON-friendly value. Multi-valued
// numeric tags become slices.
func tagValue(tag *tiff.Tag) (any, bool) {
	switch tag.Format() {
	case tiff.StringVal:
		s, err := tag.StringVal()
		return s, err == nil
	case tiff.IntVal:
		return collect(tag, func(i int) (any, error) { return tag.Int64(i) })
	case tiff.FloatVal:
		return collect(tag, func(i int) (any, error) {
			f, err := tag.Float(i)
			if err != nil {
				return nil, err
			}
			return finiteFloat(f), nil
		})
	case tiff.RatVal:
		return collect(tag, func(i int) (any, error) {
			num, den, err := tag.Rat2(i)
			if err != nil {
				return nil, err
			}
			if den == 0 {
				return fmt.Sprintf("%d/%d", num, den), nil
			}
			return float64(num) / float64(den), nil
		})
	case tiff.UndefVal:
		if tag.Count > maxUndefinedBytes {
			return nil, false
		}
		return strings.Trim(tag.String(), `"`), true
	default:
		return tag.String(), true
	}
}

// finiteFloat keeps NaN and Inf out of the sidecar, which JSON cannot encode.
func finiteFloat(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return f
}

func collect(tag *tiff.Tag, at func(i int) (any, error)) (any, bool) {
	n := int(tag.Count)
	if n == 0 {
		return nil, false
	}
	values := make([]any, 0, n)
	for i := 0; i < n; i++ {
		v, err := at(i)
		if err != nil {
			return nil, false
		}
		values = append(values, v)
	}
	if n == 1 {
		return values[0], true
	}
	return values, true
}
