//go:build !secugen || !cgo

package sgfplib

// Load always fails: this binary was built without the native binding.
func Load(path string) (Library, error) {
	return nil, ErrNotBuilt
}
