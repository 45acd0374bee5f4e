// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metadata records statistics about a conversion and persists them as
// a JSON sidecar file.
//
// A Tracker sits between a producer and the output stream, counting the
// events that the stream accepted. At the end of a conversion the tracker
// generates a ConversionMetadata record, which can be written to any
// io.Writer or saved next to other conversion records:
//
//	tracker := metadata.New(w)
//	if err := codec.Convert(tracker, input, format); err != nil {
//		return err
//	}
//	m := tracker.GenerateMetadata(version.Version, params)
//	err := metadata.SaveMetadata(m, dir)
//
// Metadata files are named convert-metadata-<unix>.json after the start time
// of the conversion, so they sort chronologically.
package metadata

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-json-experiment/json"

	"github.com/sirseerhq/jsonstream/internal/output"
	"github.com/sirseerhq/jsonstream/internal/sink"
)

// Tracker is an output.Stream that forwards every call to another stream and
// counts the calls that succeeded. A Tracker is not safe for concurrent use,
// like the stream it wraps.
type Tracker struct {
	s         output.Stream
	startTime time.Time
	stats     Stats
	bytes     int64
	digest    string
}

// New creates a tracker over s and starts its clock.
func New(s output.Stream) *Tracker {
	return &Tracker{
		s:         s,
		startTime: time.Now(),
	}
}

func (t *Tracker) OpenArray() error {
	if err := t.s.OpenArray(); err != nil {
		return err
	}
	t.stats.Arrays++
	t.noteDepth()
	return nil
}

func (t *Tracker) OpenObject() error {
	if err := t.s.OpenObject(); err != nil {
		return err
	}
	t.stats.Objects++
	t.noteDepth()
	return nil
}

func (t *Tracker) CloseArray() error  { return t.closed(t.s.CloseArray()) }
func (t *Tracker) CloseObject() error { return t.closed(t.s.CloseObject()) }

func (t *Tracker) closed(err error) error {
	if err != nil {
		return err
	}
	if t.s.Depth() == 0 {
		t.stats.Documents++
	}
	return nil
}

func (t *Tracker) WriteKey(name string) error {
	if err := t.s.WriteKey(name); err != nil {
		return err
	}
	t.stats.Keys++
	return nil
}

func (t *Tracker) WriteValue(v output.Value) error {
	if err := t.s.WriteValue(v); err != nil {
		return err
	}
	t.stats.Values++
	if t.s.Depth() == 0 {
		t.stats.Documents++
	}
	return nil
}

func (t *Tracker) WritePair(name string, v output.Value) error {
	if err := t.s.WritePair(name, v); err != nil {
		return err
	}
	t.stats.Keys++
	t.stats.Values++
	return nil
}

func (t *Tracker) Depth() int { return t.s.Depth() }

// Unwind forwards to the wrapped stream. A document completed by the unwind
// is counted; the null written for a dangling key is not.
func (t *Tracker) Unwind(depth int) error {
	open := t.s.Depth() > 0
	if err := t.s.Unwind(depth); err != nil {
		return err
	}
	if open && t.s.Depth() == 0 {
		t.stats.Documents++
	}
	return nil
}

func (t *Tracker) Flush() error { return t.s.Flush() }
func (t *Tracker) Close() error { return t.s.Close() }

func (t *Tracker) noteDepth() {
	if d := t.s.Depth(); d > t.stats.MaxDepth {
		t.stats.MaxDepth = d
	}
}

// Stats returns the counts collected so far.
func (t *Tracker) Stats() Stats {
	return t.stats
}

// RecordOutput stores the size and digest of the produced output. The
// digest may be empty when it was not computed.
func (t *Tracker) RecordOutput(bytes int64, digest string) {
	t.bytes = bytes
	t.digest = digest
}

// GenerateMetadata creates the record for the finished conversion. Call it
// after the output has been closed.
func (t *Tracker) GenerateMetadata(version string, params ConversionParams) *ConversionMetadata {
	completedAt := time.Now()

	return &ConversionMetadata{
		Version:      version,
		ConversionID: fmt.Sprintf("convert-%d", t.startTime.Unix()),
		Parameters:   params,
		Results: ConversionResults{
			Documents:   t.stats.Documents,
			Values:      t.stats.Values,
			Keys:        t.stats.Keys,
			Arrays:      t.stats.Arrays,
			Objects:     t.stats.Objects,
			MaxDepth:    t.stats.MaxDepth,
			Bytes:       t.bytes,
			Digest:      t.digest,
			Duration:    completedAt.Sub(t.startTime).String(),
			StartedAt:   t.startTime,
			CompletedAt: completedAt,
		},
	}
}

// WriteMetadata writes m to w as an indented JSON document followed by a
// newline. w is flushed but not closed.
func WriteMetadata(w io.Writer, m *ConversionMetadata) error {
	out := output.NewWriter(sink.Nop(w),
		output.WithIndent(2),
		output.WithSpaceAfterColon(),
		output.WithFinalNewline(),
	)
	if err := writeRecord(out, m); err != nil {
		return err
	}
	return out.Close()
}

func writeRecord(s output.Stream, m *ConversionMetadata) error {
	return output.WithObject(s, func() error {
		if err := s.WritePair("jsonstream_version", output.String(m.Version)); err != nil {
			return err
		}
		if err := s.WritePair("conversion_id", output.String(m.ConversionID)); err != nil {
			return err
		}

		if err := s.WriteKey("parameters"); err != nil {
			return err
		}
		p := m.Parameters
		err := output.WithObject(s, func() error {
			return writePairs(s, []pair{
				{"input", output.String(p.Input)},
				{"format", output.String(p.Format)},
				{"output", output.String(p.Output)},
				{"compression", output.String(p.Compression)},
				{"indent", output.Int(int64(p.Indent))},
				{"top_level", output.String(p.TopLevel)},
				{"non_finite", output.String(p.NonFinite)},
			})
		})
		if err != nil {
			return err
		}

		if err := s.WriteKey("results"); err != nil {
			return err
		}
		r := m.Results
		return output.WithObject(s, func() error {
			pairs := []pair{
				{"documents", output.Int(int64(r.Documents))},
				{"values", output.Int(int64(r.Values))},
				{"keys", output.Int(int64(r.Keys))},
				{"arrays", output.Int(int64(r.Arrays))},
				{"objects", output.Int(int64(r.Objects))},
				{"max_depth", output.Int(int64(r.MaxDepth))},
				{"output_bytes", output.Int(r.Bytes)},
			}
			if r.Digest != "" {
				pairs = append(pairs, pair{"blake3", output.String(r.Digest)})
			}
			pairs = append(pairs,
				pair{"duration", output.String(r.Duration)},
				pair{"started_at", output.String(r.StartedAt.Format(time.RFC3339Nano))},
				pair{"completed_at", output.String(r.CompletedAt.Format(time.RFC3339Nano))},
			)
			return writePairs(s, pairs)
		})
	})
}

type pair struct {
	key   string
	value output.Value
}

func writePairs(s output.Stream, pairs []pair) error {
	for _, p := range pairs {
		if err := s.WritePair(p.key, p.value); err != nil {
			return err
		}
	}
	return nil
}

// SaveMetadata writes m into dir as convert-metadata-<unix>.json. The file is
// written to a temporary name and renamed into place, so a failed write never
// leaves a truncated record behind.
func SaveMetadata(m *ConversionMetadata, dir string) (string, error) {
	filename := fmt.Sprintf("convert-metadata-%d.json", m.Results.StartedAt.Unix())
	path := filepath.Join(dir, filename)

	f, err := sink.NewFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to create metadata file: %w", err)
	}
	if err := WriteMetadata(f, m); err != nil {
		_ = f.Abort()
		return "", fmt.Errorf("failed to write metadata: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to save metadata file: %w", err)
	}
	return path, nil
}

// LoadLatestMetadata loads the most recent metadata file in dir, judged by
// modification time. It returns nil without error when dir holds none.
func LoadLatestMetadata(dir string) (*ConversionMetadata, error) {
	files, err := filepath.Glob(filepath.Join(dir, "convert-metadata-*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata files: %w", err)
	}

	var latestFile string
	var latestTime time.Time
	for _, file := range files {
		info, statErr := os.Stat(file)
		if statErr != nil {
			continue
		}
		if latestFile == "" || info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = file
		}
	}
	if latestFile == "" {
		return nil, nil
	}

	data, err := os.ReadFile(latestFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	var m ConversionMetadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse metadata %s: %w", filepath.Base(latestFile), err)
	}
	return &m, nil
}
