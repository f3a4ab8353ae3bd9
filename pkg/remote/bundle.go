package remote

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/odvcencio/enkelgit/pkg/object"
	"github.com/rs/zerolog"
)

// Objects move between repositories as a transient bundle: length-prefixed
// records compressed with zstd. The bundle lives only in memory during a
// transfer; both stores keep their one-file-per-object layout.

// encodeBundle serializes objects into a compressed bundle.
func encodeBundle(objects [][]byte) ([]byte, error) {
	var raw bytes.Buffer
	var lenBuf [4]byte
	for _, data := range objects {
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
		raw.Write(lenBuf[:])
		raw.Write(data)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("encode bundle: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(raw.Bytes(), nil), nil
}

// decodeBundle parses a compressed bundle back into object byte slices.
func decodeBundle(bundle []byte) ([][]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(bundle, nil)
	if err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}

	var objects [][]byte
	rd := bytes.NewReader(raw)
	var lenBuf [4]byte
	for {
		if _, err := io.ReadFull(rd, lenBuf[:]); err == io.EOF {
			return objects, nil
		} else if err != nil {
			return nil, fmt.Errorf("decode bundle: truncated record header: %w", err)
		}
		data := make([]byte, binary.BigEndian.Uint32(lenBuf[:]))
		if _, err := io.ReadFull(rd, data); err != nil {
			return nil, fmt.Errorf("decode bundle: truncated record: %w", err)
		}
		objects = append(objects, data)
	}
}

// transferObjects copies every object the destination store is missing
// from the source store, returning the number written.
func transferObjects(src, dst *object.Store, log zerolog.Logger) (int, error) {
	hashes, err := src.AllHashes()
	if err != nil {
		return 0, err
	}

	var missing [][]byte
	for _, h := range hashes {
		if dst.Exists(h) {
			continue
		}
		data, err := src.Read(h)
		if err != nil {
			return 0, err
		}
		missing = append(missing, data)
	}
	if len(missing) == 0 {
		log.Debug().Int("total", len(hashes)).Msg("no objects to transfer")
		return 0, nil
	}

	bundle, err := encodeBundle(missing)
	if err != nil {
		return 0, err
	}
	objects, err := decodeBundle(bundle)
	if err != nil {
		return 0, err
	}

	for _, data := range objects {
		if _, err := dst.Write(data); err != nil {
			return 0, err
		}
	}
	log.Debug().
		Int("objects", len(objects)).
		Int("bundle_bytes", len(bundle)).
		Msg("transferred object bundle")
	return len(objects), nil
}
