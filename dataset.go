package tensorhub

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"

	"github.com/unixpickle/essentials"
)

// A Document is one record from a news dataset.
// Documents are immutable once loaded.
type Document struct {
	Authors          string `json:"authors"`
	Category         string `json:"category"`
	Date             string `json:"date"`
	Headline         string `json:"headline"`
	Link             string `json:"link"`
	ShortDescription string `json:"short_description"`
}

// A DataSet is an in-memory collection of Documents.
type DataSet struct {
	Documents []Document
}

// LoadDataSet reads a JSON dataset from a file.
//
// The file may contain one JSON object per line or a
// single JSON array of objects.
func LoadDataSet(path string) (*DataSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, essentials.AddCtx("load dataset", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	first, err := firstNonSpace(br)
	if err != nil {
		return nil, essentials.AddCtx("load dataset", err)
	}

	var docs []Document
	if first == '[' {
		if err := json.NewDecoder(br).Decode(&docs); err != nil {
			return nil, essentials.AddCtx("load dataset", err)
		}
	} else {
		scanner := bufio.NewScanner(br)
		scanner.Buffer(make([]byte, 0, 1<<16), 1<<22)
		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			var doc Document
			if err := json.Unmarshal(line, &doc); err != nil {
				return nil, essentials.AddCtx("load dataset", err)
			}
			docs = append(docs, doc)
		}
		if err := scanner.Err(); err != nil {
			return nil, essentials.AddCtx("load dataset", err)
		}
	}
	return &DataSet{Documents: docs}, nil
}

// Len returns the number of Documents.
func (d *DataSet) Len() int {
	return len(d.Documents)
}

// Headlines returns the headline column.
func (d *DataSet) Headlines() []string {
	res := make([]string, len(d.Documents))
	for i, doc := range d.Documents {
		res[i] = doc.Headline
	}
	return res
}

// Categories returns the category column.
func (d *DataSet) Categories() []string {
	res := make([]string, len(d.Documents))
	for i, doc := range d.Documents {
		res[i] = doc.Category
	}
	return res
}

// firstNonSpace peeks past leading whitespace without
// consuming any of the JSON payload.
func firstNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		default:
			if err := br.UnreadByte(); err != nil {
				return 0, err
			}
			return b, nil
		}
	}
}
