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


package vectors

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// lazyCache memoizes successful word loads. Misses are not cached so a word
// added to the backing library later can still be found.
type lazyCache struct {
	mu    sync.RWMutex
	words map[string][]float64
	group singleflight.Group
	load  func(word string) ([]float64, bool)
}

func newLazyCache(load func(word string) ([]float64, bool)) *lazyCache {
	return &lazyCache{
		words: make(map[string][]float64),
		load:  load,
	}
}

func (c *lazyCache) lookup(word string) ([]float64, bool) {
	c.mu.RLock()
	vec, ok := c.words[word]
	c.mu.RUnlock()
	if ok {
		return vec, true
	}

	v, _, _ := c.group.Do(word, func() (any, error) {
		c.mu.RLock()
		cached, ok := c.words[word]
		c.mu.RUnlock()
		if ok {
			return cached, nil
		}

		vec, ok := c.load(word)
		if !ok {
			return nil, nil
		}
		c.mu.Lock()
		c.words[word] = vec
		c.mu.Unlock()
		return vec, nil
	})
	if v == nil {
		return nil, false
	}
	return v.([]float64), true
}

func (c *lazyCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.words)
}
