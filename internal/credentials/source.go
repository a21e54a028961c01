package credentials

import (
	"errors"
	"io/fs"
	"os"

	"voicetasks/internal/config"
)

// Document names a logical credential document.
type Document string

const (
	// TokenDoc is the stored OAuth token.
	TokenDoc Document = "token"

	// ClientDoc is the OAuth client secrets.
	ClientDoc Document = "client"
)

// Source supplies raw credential documents.
//
// Lookup always returns origin, a human-readable name for where the document
// was (or would have been) read from. ok is false when the source does not
// hold the document; err is set when it does but could not be read.
type Source interface {
	Lookup(doc Document) (data []byte, origin string, ok bool, err error)
}

// EnvSource reads whole JSON documents from environment variables.
type EnvSource struct {
	// Vars maps each document to its environment variable.
	Vars map[Document]string

	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// NewEnvSource returns an EnvSource using the standard variable names.
func NewEnvSource() *EnvSource {
	return &EnvSource{
		Vars: map[Document]string{
			TokenDoc:  config.EnvTokenDocument,
			ClientDoc: config.EnvClientDocument,
		},
		LookupEnv: os.LookupEnv,
	}
}

// Lookup implements Source. An empty variable counts as unset.
func (s *EnvSource) Lookup(doc Document) ([]byte, string, bool, error) {
	name, ok := s.Vars[doc]
	if !ok {
		return nil, "", false, nil
	}
	lookup := s.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	raw, ok := lookup(name)
	if !ok || raw == "" {
		return nil, name, false, nil
	}
	return []byte(raw), name, true, nil
}

// FileSource reads documents from local files.
type FileSource struct {
	// Paths maps each document to its file path.
	Paths map[Document]string
}

// NewFileSource returns a FileSource for the secrets directory in cfg.
func NewFileSource(cfg *config.Config) *FileSource {
	return &FileSource{
		Paths: map[Document]string{
			TokenDoc:  cfg.TokenPath(),
			ClientDoc: cfg.ClientPath(),
		},
	}
}

// Lookup implements Source. A missing file is reported as not found.
func (s *FileSource) Lookup(doc Document) ([]byte, string, bool, error) {
	path, ok := s.Paths[doc]
	if !ok {
		return nil, "", false, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, path, false, nil
	}
	if err != nil {
		return nil, path, true, err
	}
	return data, path, true, nil
}
