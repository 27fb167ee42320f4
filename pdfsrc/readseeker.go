package pdfsrc

import "bytes"

// newReadSeeker wraps a PDF byte slice as the io.ReadSeeker model.NewPdfReader
// expects, so loading a document never touches the filesystem.
func newReadSeeker(data []byte) *bytes.Reader {
	return bytes.NewReader(data)
}
