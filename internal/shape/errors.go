package shape

import "github.com/olivier-w/holoforge/internal/errors"

func errGeometryCount(id ID, got, want int) error {
	return errors.New(errors.CodeGeometry, "%s: generated %d points, want %d", id, got, want)
}

func errLayoutChanged(id ID) error {
	return errors.New(errors.CodeGeometry, "%s: subpath layout changed between frames", id)
}
