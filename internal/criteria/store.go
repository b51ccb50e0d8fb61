package criteria

import (
	"net/url"
	"sync"
)

// Store is where committed filter values live. The editor only ever talks
// to this interface; the browser URL is one backing among others.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

type NavigateOptions struct {
	Scroll  bool
	History bool
}

// Navigator moves the browser to another URL of the same page.
type Navigator interface {
	Replace(url string, opts NavigateOptions)
}

// URLStore keeps values in a query string. Every change replaces the current
// URL without adding a history entry and without scrolling.
type URLStore struct {
	mu     sync.Mutex
	path   string
	values url.Values
	nav    Navigator
}

func NewURLStore(path string, values url.Values, nav Navigator) *URLStore {
	cloned := url.Values{}
	for k, v := range values {
		cloned[k] = append([]string(nil), v...)
	}
	return &URLStore{path: path, values: cloned, nav: nav}
}

func (s *URLStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}

func (s *URLStore) Set(key, value string) {
	s.mu.Lock()
	s.values.Set(key, value)
	target := s.urlLocked()
	s.mu.Unlock()
	s.replace(target)
}

func (s *URLStore) Delete(key string) {
	s.mu.Lock()
	s.values.Del(key)
	target := s.urlLocked()
	s.mu.Unlock()
	s.replace(target)
}

func (s *URLStore) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.urlLocked()
}

func (s *URLStore) Values() url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := url.Values{}
	for k, v := range s.values {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func (s *URLStore) urlLocked() string {
	return s.path + "?" + s.values.Encode()
}

func (s *URLStore) replace(target string) {
	if s.nav == nil {
		return
	}
	s.nav.Replace(target, NavigateOptions{Scroll: false, History: false})
}

type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStore(initial map[string]string) *MemoryStore {
	values := make(map[string]string, len(initial))
	for k, v := range initial {
		values[k] = v
	}
	return &MemoryStore{values: values}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// RecordingNavigator remembers replace calls instead of moving a browser.
// Form posts use it to learn where the browser has to be redirected.
type RecordingNavigator struct {
	mu    sync.Mutex
	calls []string
	opts  NavigateOptions
}

func (n *RecordingNavigator) Replace(url string, opts NavigateOptions) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, url)
	n.opts = opts
}

func (n *RecordingNavigator) Last() (string, NavigateOptions, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.calls) == 0 {
		return "", NavigateOptions{}, false
	}
	return n.calls[len(n.calls)-1], n.opts, true
}

func (n *RecordingNavigator) Calls() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.calls...)
}
