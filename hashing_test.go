package main

import (
	"sync"
	"testing"
)

func TestHashContent(t *testing.T) {
	a, b := hashContent([]byte("banana")), hashContent([]byte("banana"))
	if a != b {
		t.Errorf("hashing is not deterministic: %s vs %s", a, b)
	}
	if len(a) != 32 {
		t.Errorf("want a 128-bit hex digest, got %s", a)
	}
	if a == hashContent([]byte("bananas")) || a == hashContent(nil) {
		t.Errorf("different contents share the digest %s", a)
	}
}

func TestHashContentConcurrent(t *testing.T) {
	want := hashContent([]byte("abracadabra"))
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				if got := hashContent([]byte("abracadabra")); got != want {
					t.Errorf("want %s, got %s", want, got)
					return
				}
			}
		}()
	}
	wg.Wait()
}
