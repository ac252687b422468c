package testutil

import (
	"bytes"
	"testing"

	"github.com/mholt/archives"
	"github.com/nix-community/go-nix/pkg/nar"
)

// NARNode is one node written into a test NAR.
type NARNode struct {
	header  nar.Header
	content []byte
}

// Dir returns a directory node. Paths are absolute inside the NAR, e.g. "/bin".
func Dir(path string) NARNode {
	return NARNode{header: nar.Header{Path: path, Type: nar.TypeDirectory}}
}

// File returns a regular file node.
func File(path, content string) NARNode {
	return NARNode{
		header:  nar.Header{Path: path, Type: nar.TypeRegular, Size: int64(len(content))},
		content: []byte(content),
	}
}

// Exec returns an executable file node.
func Exec(path, content string) NARNode {
	n := File(path, content)
	n.header.Executable = true
	return n
}

// Symlink returns a symlink node.
func Symlink(path, target string) NARNode {
	return NARNode{header: nar.Header{Path: path, Type: nar.TypeSymlink, LinkTarget: target}}
}

// BuildNAR serializes nodes into a NAR. Nodes must be given in NAR order (parents first,
// siblings sorted). A root directory is prepended unless the first node is the root.
func BuildNAR(t *testing.T, nodes ...NARNode) []byte {
	t.Helper()

	if len(nodes) == 0 || nodes[0].header.Path != "/" {
		nodes = append([]NARNode{Dir("/")}, nodes...)
	}

	var buf bytes.Buffer
	w, err := nar.NewWriter(&buf)
	if err != nil {
		t.Fatalf("create nar writer: %v", err)
	}
	for _, n := range nodes {
		hdr := n.header
		if err := w.WriteHeader(&hdr); err != nil {
			t.Fatalf("write nar header %s: %v", hdr.Path, err)
		}
		if len(n.content) > 0 {
			if _, err := w.Write(n.content); err != nil {
				t.Fatalf("write nar content %s: %v", hdr.Path, err)
			}
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close nar writer: %v", err)
	}
	return buf.Bytes()
}

// Compress compresses data with the given compression format, e.g. archives.Xz{}.
func Compress(t *testing.T, format archives.Compressor, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w, err := format.OpenWriter(&buf)
	if err != nil {
		t.Fatalf("open compressor: %v", err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("compress: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close compressor: %v", err)
	}
	return buf.Bytes()
}

// XZ compresses data with xz, the codec used by cache.nixos.org.
func XZ(t *testing.T, data []byte) []byte {
	t.Helper()
	return Compress(t, archives.Xz{}, data)
}
