package filestore

import (
	"io"
	"io/ioutil"
)

// FakeStore keeps uploads in memory and hands back fake:// URLs. Meant for
// tests and local development.
type FakeStore struct {
	Objects map[string][]byte
	Err     error
}

func NewFakeStore() *FakeStore {
	return &FakeStore{Objects: make(map[string][]byte)}
}

func (f *FakeStore) Upload(key, contentType string, body io.Reader) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	data, err := ioutil.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.Objects[key] = data
	return "fake://" + key, nil
}
