package market

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// MaxPhotos caps the photos kept on a listing.
const MaxPhotos = 5

// User is a bot user as stored.
type User struct {
	ID     int64
	Handle string
	VIP    bool
}

// Field is one answered question of a listing.
type Field struct {
	Question string
	Answer   string
}

// Fields keeps answers in the order the questions were asked. It encodes
// as a JSON object whose key order matches the slice order.
type Fields []Field

// Questions returns the question of every field in order.
func (f Fields) Questions() []string {
	out := make([]string, len(f))
	for i, fd := range f {
		out[i] = fd.Question
	}
	return out
}

// Get returns the answer for question.
func (f Fields) Get(question string) (string, bool) {
	for _, fd := range f {
		if fd.Question == question {
			return fd.Answer, true
		}
	}
	return "", false
}

// MarshalJSON encodes the fields as an ordered JSON object.
func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, fd := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(fd.Question)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(fd.Answer)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping its key order.
func (f *Fields) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*f = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("fields: expected JSON object")
	}
	out := Fields{}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := kt.(string)
		if !ok {
			return fmt.Errorf("fields: unexpected key %v", kt)
		}
		var val any
		if err := dec.Decode(&val); err != nil {
			return err
		}
		answer, ok := val.(string)
		if !ok {
			answer = fmt.Sprint(val)
		}
		out = append(out, Field{Question: key, Answer: answer})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*f = out
	return nil
}

// Listing is a published sell or buy post.
type Listing struct {
	ID        int64
	Owner     int64
	Handle    string
	Server    string
	Category  string
	Type      ListingType
	Action    Action
	Fields    Fields
	Photos    []string
	VIP       bool
	Pinned    bool
	CreatedAt int64
}

// NewListing carries what AddListing needs; the store assigns the id and
// the creation time.
type NewListing struct {
	Owner    int64
	Handle   string
	Server   string
	Category string
	Type     ListingType
	Action   Action
	Fields   Fields
	Photos   []string
	VIP      bool
}

// Filter narrows ListListings. Empty members match everything.
type Filter struct {
	Server   string
	Category string
	Action   Action
}
