package http

import (
	"io/fs"
	"net/http"
)

// uploadsFS serves stored files only. Directories, and with them the
// listings http.FileServer would render, are reported as missing.
type uploadsFS struct {
	root http.FileSystem
}

func (u uploadsFS) Open(name string) (http.File, error) {
	f, err := u.root.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}

// uploadsHandler serves dir under /uploads/.
func uploadsHandler(dir string) http.Handler {
	return http.StripPrefix("/uploads/", http.FileServer(uploadsFS{root: http.Dir(dir)}))
}
