package pdfops

import (
	"context"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/AnyUserName/docbatch/internal/batch"
	"github.com/AnyUserName/docbatch/internal/index"
	"github.com/AnyUserName/docbatch/internal/report"
)

// KeyLength is the AES key size used for encryption.
const KeyLength = 256

// EncryptFile writes an AES-256 encrypted copy of src to dst with
// password as both user and owner password.
func EncryptFile(src, dst, password string) error {
	conf := model.NewAESConfiguration(password, password, KeyLength)
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.EncryptFile(src, dst, conf); err != nil {
		return fmt.Errorf("encrypt %s: %w", src, err)
	}
	return nil
}

// Encrypt writes "<name>_encrypted.pdf" for every PDF under root. An
// empty password aborts before anything is written.
func Encrypt(_ context.Context, env *batch.Env, root string) (*report.Result, error) {
	password, ok := env.ReadInput()
	if !ok {
		return nil, fmt.Errorf("%w: no encryption key provided", batch.ErrNoCredential)
	}
	files, err := index.Scan(root, index.PDF...)
	if err != nil {
		return nil, err
	}

	r := report.New("encrypt-pdf", root)
	env.Each(r.Operation, r, files.Paths(), func(path string) error {
		out := index.StripExt(path) + "_encrypted.pdf"
		if err := EncryptFile(path, out, password); err != nil {
			return err
		}
		r.AddOutput(out, path)
		r.Line("Encrypted PDF created: %s", out)
		return nil
	})

	r.ComputeStats(len(files))
	return r, nil
}
