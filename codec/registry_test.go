package codec_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/mock/gomock"

	"github.com/ghettovoice/httphdr/codec"
	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/log"
	"github.com/ghettovoice/httphdr/internal/testutil/codecmock"
)

func newMockCodec(ctrl *gomock.Controller, name string) *codecmock.MockCodec {
	c := codecmock.NewMockCodec(ctrl)
	c.EXPECT().Name().Return(name).AnyTimes()
	return c
}

func TestRegistry_Builtins(t *testing.T) {
	t.Parallel()

	reg := codec.NewRegistry(&codec.RegistryOptions{Logger: log.Noop})

	cases := []struct {
		name string
		want codec.Codec
	}{
		{"identity", codec.Identity{}},
		{"GZIP", codec.GZip{}},
		{"x-gzip", codec.GZip{}},
		{" Deflate ", codec.Deflate{}},
		{"compress", codec.Compress{}},
		{"X-Compress", codec.Compress{}},
		{"chunked", codec.Chunked{}},
	}
	for _, c := range cases {
		got, err := reg.Retrieve(c.name)
		if err != nil {
			t.Errorf("reg.Retrieve(%q) error = %v, want nil", c.name, err)
			continue
		}
		if got.Name() != c.want.Name() {
			t.Errorf("reg.Retrieve(%q) = %s, want %s", c.name, got.Name(), c.want.Name())
		}
		if !reg.Contains(c.name) || !codec.IsBuiltin(c.name) {
			t.Errorf("%q is not reported as a built-in codec", c.name)
		}
	}

	if _, err := reg.Retrieve("br"); !cmp.Equal(err, codec.ErrNotRegistered, cmpopts.EquateErrors()) {
		t.Errorf("reg.Retrieve(\"br\") error = %v, want %v", err, codec.ErrNotRegistered)
	}
	if got, want := len(codec.Builtins()), 5; got != want {
		t.Errorf("len(codec.Builtins()) = %d, want %d", got, want)
	}
}

func TestRegistry_AddRemove(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	custom := newMockCodec(ctrl, "custom")
	reg := codec.NewRegistry(&codec.RegistryOptions{Logger: log.Noop})

	if err := reg.Add(custom); err != nil {
		t.Fatalf("reg.Add(custom) error = %v, want nil", err)
	}
	got, err := reg.Retrieve("Custom")
	if err != nil || got != codec.Codec(custom) {
		t.Errorf("reg.Retrieve(\"Custom\") = %v, %v, want the registered codec", got, err)
	}
	if !reg.Contains("CUSTOM") {
		t.Error("reg.Contains(\"CUSTOM\") = false, want true")
	}
	if diff := cmp.Diff(reg.Names(), []string{"chunked", "compress", "custom", "deflate", "gzip", "identity"}); diff != "" {
		t.Errorf("reg.Names() mismatch (-got +want):\n%v", diff)
	}

	err = reg.Add(newMockCodec(ctrl, "custom"))
	if diff := cmp.Diff(err, codec.ErrAlreadyRegistered, cmpopts.EquateErrors()); diff != "" {
		t.Errorf("second reg.Add(custom) error = %v, want %v\ndiff (-got +want):\n%v", err, codec.ErrAlreadyRegistered, diff)
	}

	if err := reg.Remove("custom"); err != nil {
		t.Fatalf("reg.Remove(\"custom\") error = %v, want nil", err)
	}
	if _, err := reg.Retrieve("custom"); !cmp.Equal(err, codec.ErrNotRegistered, cmpopts.EquateErrors()) {
		t.Errorf("reg.Retrieve(\"custom\") after remove error = %v, want %v", err, codec.ErrNotRegistered)
	}
	if err := reg.Remove("custom"); !cmp.Equal(err, codec.ErrNotRegistered, cmpopts.EquateErrors()) {
		t.Errorf("second reg.Remove(\"custom\") error = %v, want %v", err, codec.ErrNotRegistered)
	}
	for _, c := range codec.Builtins() {
		if !reg.Contains(c.Name()) {
			t.Errorf("reg.Contains(%q) = false after remove, want true", c.Name())
		}
	}
}

func TestRegistry_Errors(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	reg := codec.NewRegistry(&codec.RegistryOptions{Logger: log.Noop})

	cases := []struct {
		name    string
		c       codec.Codec
		wantErr error
	}{
		{"nil", nil, errorutil.ErrInvalidArgument},
		{"invalid name", newMockCodec(ctrl, "bad name"), errorutil.ErrInvalidArgument},
		{"empty name", newMockCodec(ctrl, ""), errorutil.ErrInvalidArgument},
		{"built-in", newMockCodec(ctrl, "GZip"), codec.ErrBuiltin},
		{"built-in alias", newMockCodec(ctrl, "x-compress"), codec.ErrBuiltin},
	}
	for _, c := range cases {
		err := reg.Add(c.c)
		if diff := cmp.Diff(err, c.wantErr, cmpopts.EquateErrors()); diff != "" {
			t.Errorf("%s: reg.Add() error = %v, want %v\ndiff (-got +want):\n%v", c.name, err, c.wantErr, diff)
		}
	}

	if err := reg.Remove("chunked"); !cmp.Equal(err, codec.ErrBuiltin, cmpopts.EquateErrors()) {
		t.Errorf("reg.Remove(\"chunked\") error = %v, want %v", err, codec.ErrBuiltin)
	}
	if !reg.Contains("chunked") {
		t.Error("reg.Contains(\"chunked\") = false, want true")
	}
}

func TestRegistry_Concurrent(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	reg := codec.NewRegistry(&codec.RegistryOptions{Logger: log.Noop})

	const workers = 8
	mocks := make([]*codecmock.MockCodec, workers)
	for i := range mocks {
		mocks[i] = newMockCodec(ctrl, fmt.Sprintf("custom-%d", i))
	}

	var wg sync.WaitGroup
	errs := make(chan error, workers*100)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			name := fmt.Sprintf("custom-%d", i)
			for range 50 {
				if err := reg.Add(mocks[i]); err != nil {
					errs <- fmt.Errorf("add %s: %w", name, err)
					return
				}
				if _, err := reg.Retrieve(name); err != nil {
					errs <- fmt.Errorf("retrieve %s: %w", name, err)
					return
				}
				if _, err := reg.Retrieve("gzip"); err != nil {
					errs <- fmt.Errorf("retrieve gzip: %w", err)
					return
				}
				if err := reg.Remove(name); err != nil {
					errs <- fmt.Errorf("remove %s: %w", name, err)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	if got, want := len(reg.Names()), len(codec.Builtins()); got != want {
		t.Errorf("len(reg.Names()) = %d, want %d", got, want)
	}
}

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	c := newMockCodec(ctrl, "x-default-test")

	if err := codec.Add(c); err != nil {
		t.Fatalf("codec.Add() error = %v, want nil", err)
	}
	if !codec.Contains("X-Default-Test") || !codec.Default().Contains("x-default-test") {
		t.Error("codec.Contains(\"X-Default-Test\") = false, want true")
	}
	if got, err := codec.Retrieve("x-default-test"); err != nil || got != codec.Codec(c) {
		t.Errorf("codec.Retrieve() = %v, %v, want the registered codec", got, err)
	}
	if err := codec.Remove("x-default-test"); err != nil {
		t.Errorf("codec.Remove() error = %v, want nil", err)
	}
	if codec.Contains("x-default-test") {
		t.Error("codec.Contains() after remove = true, want false")
	}
}

func TestNewRegistry_Codecs(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	custom := newMockCodec(ctrl, "custom")
	reg := codec.NewRegistry(&codec.RegistryOptions{
		Codecs: []codec.Codec{codec.GZip{Level: 9}, codec.Chunked{SliceSize: 16}, custom, nil},
		Logger: log.Noop,
	})

	if got, _ := reg.Retrieve("gzip"); got != codec.Codec(codec.GZip{Level: 9}) {
		t.Errorf("reg.Retrieve(\"gzip\") = %#v, want codec.GZip{Level: 9}", got)
	}
	if got, _ := reg.Retrieve("custom"); got != codec.Codec(custom) {
		t.Errorf("reg.Retrieve(\"custom\") = %v, want the registered codec", got)
	}
	if err := reg.Remove("gzip"); !cmp.Equal(err, codec.ErrBuiltin, cmpopts.EquateErrors()) {
		t.Errorf("reg.Remove(\"gzip\") error = %v, want %v", err, codec.ErrBuiltin)
	}

	if got, _ := codec.NewRegistry(nil).Retrieve("gzip"); got != codec.Codec(codec.GZip{}) {
		t.Errorf("default registry gzip = %#v, want codec.GZip{}", got)
	}
}
