package models

import (
	"errors"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

var ErrIsDir = errors.New("Is a directory")

// SelectedFile is a file picked by the user for one upload attempt.
type SelectedFile struct {
	Id       string
	Name     string
	Size     int64
	MIME     string
	Body     io.ReadCloser
	FullPath string
}

func OpenSelectedFile(fpath string) (*SelectedFile, error) {
	fi, err := os.Stat(fpath)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return nil, ErrIsDir
	}

	fd, err := os.Open(fpath)
	if err != nil {
		return nil, err
	}

	file := NewSelectedFile(fi.Name(), fi.Size(), fd)
	file.FullPath = fpath

	return file, nil
}

func NewSelectedFile(name string, size int64, body io.Reader) *SelectedFile {
	rc, ok := body.(io.ReadCloser)
	if !ok {
		rc = io.NopCloser(body)
	}

	fileType := mime.TypeByExtension(filepath.Ext(name))
	if fileType == "" {
		fileType = "application/octet-stream"
	}

	return &SelectedFile{
		Id:   uuid.NewString(),
		Name: name,
		Size: size,
		MIME: fileType,
		Body: rc,
	}
}

func (f *SelectedFile) Close() error {
	if f == nil || f.Body == nil {
		return nil
	}
	return f.Body.Close()
}
