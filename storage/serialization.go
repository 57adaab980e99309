// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"errors"
	"fmt"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// VectorMUS serializes a vector as a varint length followed by fixed-width
// float64 components.
var VectorMUS = ord.NewSliceSer[float64](raw.Float64)

// MarshalVector serializes a vector to bytes.
func MarshalVector(vec []float64) []byte {
	buf := make([]byte, VectorMUS.Size(vec))
	VectorMUS.Marshal(vec, buf)
	return buf
}

// UnmarshalVector deserializes a vector written by MarshalVector.
func UnmarshalVector(data []byte) ([]float64, error) {
	vec, _, err := VectorMUS.Unmarshal(data)
	if err != nil {
		return nil, wrapUnmarshal(err)
	}
	return vec, nil
}

// MarshalInt serializes an integer to bytes.
func MarshalInt(v int) []byte {
	buf := make([]byte, varint.Int.Size(v))
	varint.Int.Marshal(v, buf)
	return buf
}

// UnmarshalInt deserializes an integer written by MarshalInt.
func UnmarshalInt(data []byte) (int, error) {
	v, _, err := varint.Int.Unmarshal(data)
	if err != nil {
		return 0, wrapUnmarshal(err)
	}
	return v, nil
}

func wrapUnmarshal(err error) error {
	if errors.Is(err, mus.ErrTooSmallByteSlice) {
		return fmt.Errorf("%w: %w: %w", ErrSerializationFailed, ErrTruncatedData, err)
	}
	return fmt.Errorf("%w: %w", ErrSerializationFailed, err)
}
