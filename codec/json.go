package codec

import "encoding/json"

// JSON is the default codec. The canonical wire encoding for cached domain
// payloads (contests, teams, wallets) is JSON.
type JSON[V any] struct{}

func (JSON[V]) Encode(v V) ([]byte, error) { return json.Marshal(v) }
func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}
