package stm32h7

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const manifestFileName = "manifest.json"

var errInvalidCrc = errors.New("mismatch crc32")

// Transport programs a finished image onto a device over USB. It is an
// external collaborator: implementations either succeed or report a
// transport-level failure, and this package never looks inside them.
type Transport interface {
	Program(ctx context.Context, image []byte, addr uint32, device string) error
}

// Flash pushes an image through a transport, wrapping failures with the
// device identity.
func Flash(ctx context.Context, t Transport, image []byte, addr uint32, device string) error {
	if len(image) == 0 {
		return errors.New("empty image")
	}
	if err := t.Program(ctx, image, addr, device); err != nil {
		return &TransportError{Device: device, Err: err}
	}
	return nil
}

type BundleContents struct {
	Manifest Manifest `json:"manifest"`
}

type Manifest struct {
	App Application `json:"application"`
}

type Application struct {
	BinFile string `json:"bin_file"`
	DatFile string `json:"dat_file"`
}

// InitPacket describes the image a bundle carries: where it starts and
// the checksums the programmer verifies before committing it.
type InitPacket struct {
	Size     uint32
	Crc      uint32
	LoadAddr uint32
	Hash     []byte
}

func sha256Sum(b []byte) []byte {
	h := sha256.Sum256(b)
	return h[:]
}

func marshalInitPacket(p InitPacket) ([]byte, error) {
	st, err := structpb.NewStruct(map[string]any{
		"image_size": p.Size,
		"image_crc":  p.Crc,
		"load_addr":  p.LoadAddr,
		"image_hash": hex.EncodeToString(p.Hash),
	})
	if err != nil {
		return nil, err
	}
	return proto.MarshalOptions{Deterministic: true}.Marshal(st)
}

func unmarshalInitPacket(b []byte) (*InitPacket, error) {
	var st structpb.Struct
	if err := proto.Unmarshal(b, &st); err != nil {
		return nil, err
	}
	var p InitPacket
	for name, dst := range map[string]*uint32{
		"image_size": &p.Size,
		"image_crc":  &p.Crc,
		"load_addr":  &p.LoadAddr,
	} {
		v, ok := st.Fields[name]
		if !ok {
			return nil, fmt.Errorf("init packet is missing %s", name)
		}
		*dst = uint32(v.GetNumberValue())
	}
	v, ok := st.Fields["image_hash"]
	if !ok {
		return nil, errors.New("init packet is missing image_hash")
	}
	hash, err := hex.DecodeString(v.GetStringValue())
	if err != nil {
		return nil, err
	}
	p.Hash = hash
	return &p, nil
}

// WriteBundle packages an image as a programming bundle: the raw binary,
// an init packet, and a manifest tying them together.
func WriteBundle(w io.Writer, name string, image []byte, addr uint32) error {
	if len(image) == 0 {
		return errors.New("empty image")
	}
	packet, err := marshalInitPacket(InitPacket{
		Size:     uint32(len(image)),
		Crc:      crc32.ChecksumIEEE(image),
		LoadAddr: addr,
		Hash:     sha256Sum(image),
	})
	if err != nil {
		return err
	}
	manifest, err := json.Marshal(BundleContents{
		Manifest: Manifest{App: Application{
			BinFile: name + ".bin",
			DatFile: name + ".dat",
		}},
	})
	if err != nil {
		return err
	}
	zw := zip.NewWriter(w)
	for _, f := range []struct {
		name string
		data []byte
	}{
		{name + ".bin", image},
		{name + ".dat", packet},
		{manifestFileName, manifest},
	} {
		fw, err := zw.Create(f.name)
		if err != nil {
			return err
		}
		if _, err := fw.Write(f.data); err != nil {
			return err
		}
	}
	return zw.Close()
}

// Bundle is a parsed programming bundle with its checksum verified.
type Bundle struct {
	Image  []byte
	Packet InitPacket
}

// ReadBundle parses a programming bundle and verifies the image against
// the init packet.
func ReadBundle(r io.ReaderAt, size int64) (*Bundle, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, err
	}
	mf, err := zr.Open(manifestFileName)
	if err != nil {
		return nil, err
	}
	defer mf.Close()
	var contents BundleContents
	if err := json.NewDecoder(mf).Decode(&contents); err != nil {
		return nil, err
	}
	app := contents.Manifest.App
	image, err := readZipFile(zr, app.BinFile)
	if err != nil {
		return nil, err
	}
	raw, err := readZipFile(zr, app.DatFile)
	if err != nil {
		return nil, err
	}
	packet, err := unmarshalInitPacket(raw)
	if err != nil {
		return nil, err
	}
	if uint32(len(image)) != packet.Size {
		return nil, fmt.Errorf("image is %#x bytes, packet says %#x", len(image), packet.Size)
	}
	if crc32.ChecksumIEEE(image) != packet.Crc {
		return nil, errInvalidCrc
	}
	if !bytes.Equal(sha256Sum(image), packet.Hash) {
		return nil, errors.New("mismatch image hash")
	}
	return &Bundle{Image: image, Packet: *packet}, nil
}

func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	f, err := zr.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
