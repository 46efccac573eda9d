package media

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedFormat is returned for filenames outside the accepted suffixes.
var ErrUnsupportedFormat = errors.New("unsupported media format")

// Kind selects the processing branch for a submission.
type Kind int

const (
	KindUnknown Kind = iota
	KindVideo
	KindCompressedAudio
	KindWaveform
)

func (k Kind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindCompressedAudio:
		return "compressed_audio"
	case KindWaveform:
		return "waveform"
	default:
		return "unknown"
	}
}

type suffix struct {
	ext  string
	kind Kind
}

// accepted is matched in order, exact case.
var accepted = []suffix{
	{".mp4", KindVideo},
	{".mp3", KindCompressedAudio},
	{".m4a", KindCompressedAudio},
	{".wav", KindWaveform},
}

// Classify maps a filename to its processing branch by exact,
// case-sensitive suffix match.
func Classify(filename string) (Kind, error) {
	for _, s := range accepted {
		if strings.HasSuffix(filename, s.ext) {
			return s.kind, nil
		}
	}
	return KindUnknown, fmt.Errorf("%w: %q (accepted: %s)", ErrUnsupportedFormat, filename, AcceptedSuffixes())
}

// AcceptedSuffixes lists the recognized suffixes, comma separated.
func AcceptedSuffixes() string {
	exts := make([]string, 0, len(accepted))
	for _, s := range accepted {
		exts = append(exts, s.ext)
	}
	return strings.Join(exts, ", ")
}
