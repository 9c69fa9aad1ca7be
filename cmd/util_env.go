package cmd

import (
	"fmt"
	"sort"
	"strings"
)

type kvEnv map[string]string

func (e kvEnv) LoadFromEnviron(kevs ...string) {
	for _, kev := range kevs {
		kv := strings.SplitN(kev, "=", 2)
		if len(kv) != 2 {
			// skip invalid
			continue
		}
		e[kv[0]] = kv[1]
	}
}

// Environ is sorted for stable output
func (e kvEnv) Environ() []string {
	r := []string{}
	for k, v := range e {
		r = append(r, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(r)
	return r
}

func (e kvEnv) Add(kvs [][2]string) {
	for _, kv := range kvs {
		e[kv[0]] = kv[1]
	}
}
