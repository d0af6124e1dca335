package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	WavHeaderSize = 44

	riffChunkSizeOffset = 4
	dataChunkSizeOffset = 40
	fmtChunkSize        = 16
	waveFormatPCM       = 0x0001

	// StreamingDataLength is the data length written when the final size is
	// not known yet, as espeak's own wave writer does.
	StreamingDataLength = 0x7ffff000
)

// ErrUnsupportedFormat is returned when a WAV header is requested for a
// non-linear16 encoding.
var ErrUnsupportedFormat = errors.New("only linear16 audio can be written as wav")

// WavHeader builds a canonical 44 byte PCM header for dataLength bytes of
// audio. A negative dataLength writes [StreamingDataLength].
func WavHeader(info EncodingInfo, dataLength int) ([]byte, error) {
	if info.Format != EncodingLinear16 {
		return nil, fmt.Errorf("%w: got %q", ErrUnsupportedFormat, info.Format.Name())
	}
	if info.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", info.SampleRate)
	}
	if dataLength < 0 {
		dataLength = StreamingDataLength
	}

	channels := info.channels()
	sampleWidth := info.Format.ByteSize()

	header := bytes.NewBuffer(make([]byte, 0, WavHeaderSize))
	header.WriteString("RIFF")
	_ = binary.Write(header, binary.LittleEndian, uint32(36+dataLength))
	header.WriteString("WAVE")
	header.WriteString("fmt ")
	_ = binary.Write(header, binary.LittleEndian, uint32(fmtChunkSize))
	_ = binary.Write(header, binary.LittleEndian, uint16(waveFormatPCM))
	_ = binary.Write(header, binary.LittleEndian, uint16(channels))
	_ = binary.Write(header, binary.LittleEndian, uint32(info.SampleRate))
	_ = binary.Write(header, binary.LittleEndian, uint32(channels*info.SampleRate*sampleWidth))
	_ = binary.Write(header, binary.LittleEndian, uint16(channels*sampleWidth))
	_ = binary.Write(header, binary.LittleEndian, uint16(sampleWidth*8))
	header.WriteString("data")
	_ = binary.Write(header, binary.LittleEndian, uint32(dataLength))

	return header.Bytes(), nil
}

// WriteWav writes pcm as a complete WAV stream.
func WriteWav(w io.Writer, info EncodingInfo, pcm []byte) error {
	header, err := WavHeader(info, len(pcm))
	if err != nil {
		return err
	}
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write wav header: %w", err)
	}
	if _, err := w.Write(pcm); err != nil {
		return fmt.Errorf("failed to write wav data: %w", err)
	}
	return nil
}

// ExportCapture converts a raw capture file into a WAV file at wavPath.
func ExportCapture(capturePath, wavPath string, info EncodingInfo) error {
	pcm, err := os.ReadFile(capturePath)
	if err != nil {
		return fmt.Errorf("failed to read capture %s: %w", capturePath, err)
	}

	var out bytes.Buffer
	if err := WriteWav(&out, info, pcm); err != nil {
		return err
	}

	if err := os.WriteFile(wavPath, out.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", wavPath, err)
	}
	return nil
}

// WavSink accumulates PCM chunks and writes them as one WAV file on Close.
// The header is patched with the final sizes, so the writer must be seekable.
type WavSink struct {
	file    *os.File
	written int
}

func CreateWavSink(path string, info EncodingInfo) (*WavSink, error) {
	header, err := WavHeader(info, -1)
	if err != nil {
		return nil, err
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := file.Write(header); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to write wav header: %w", err)
	}

	return &WavSink{file: file}, nil
}

func (s *WavSink) Write(pcm []byte) (int, error) {
	n, err := s.file.Write(pcm)
	s.written += n
	return n, err
}

// Close patches the RIFF and data chunk sizes and closes the file.
func (s *WavSink) Close() error {
	var patchErr error
	sizes := []struct {
		offset int64
		value  uint32
	}{
		{offset: riffChunkSizeOffset, value: uint32(36 + s.written)},
		{offset: dataChunkSizeOffset, value: uint32(s.written)},
	}
	for _, size := range sizes {
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, size.value)
		if _, err := s.file.WriteAt(buf, size.offset); err != nil {
			patchErr = errors.Join(patchErr, err)
		}
	}

	if err := s.file.Close(); err != nil {
		patchErr = errors.Join(patchErr, err)
	}
	if patchErr != nil {
		return fmt.Errorf("failed to finalize wav file: %w", patchErr)
	}
	return nil
}
