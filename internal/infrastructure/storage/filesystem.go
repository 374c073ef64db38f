// Package storage guarda los archivos adjuntos de los recibos en el
// sistema de archivos local, bajo el directorio configurado.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/medarrival/medarrival-api/internal/application/usecase"
)

// FilesystemStorage implementa usecase.FileStorage sobre un directorio raíz.
// Las rutas lógicas ("receipts/<id>/<archivo>") se resuelven siempre dentro
// del raíz; una ruta que escape de él se rechaza.
type FilesystemStorage struct {
	root string
}

var _ usecase.FileStorage = (*FilesystemStorage)(nil)

// NewFilesystemStorage construye el storage y crea el directorio raíz.
func NewFilesystemStorage(root string) (*FilesystemStorage, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolver raíz %s: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage: crear raíz %s: %w", abs, err)
	}
	return &FilesystemStorage{root: abs}, nil
}

// Save escribe el archivo, creando los directorios intermedios.
func (s *FilesystemStorage) Save(path string, data []byte) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("storage: crear directorio: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("storage: escribir %s: %w", path, err)
	}
	return nil
}

// Read devuelve el contenido del archivo.
func (s *FilesystemStorage) Read(path string) ([]byte, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("storage: leer %s: %w", path, err)
	}
	return data, nil
}

// Delete borra el archivo. Un archivo ya inexistente no es error.
func (s *FilesystemStorage) Delete(path string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: borrar %s: %w", path, err)
	}
	return nil
}

// resolve traduce una ruta lógica a una ruta absoluta bajo el raíz.
func (s *FilesystemStorage) resolve(path string) (string, error) {
	full := filepath.Join(s.root, filepath.FromSlash(path))
	if !strings.HasPrefix(full, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("storage: ruta fuera del raíz: %s", path)
	}
	return full, nil
}
