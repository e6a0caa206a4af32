//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frobware/go-readahead"
	"github.com/frobware/go-readahead/compute"
	"github.com/frobware/go-readahead/interpreter/ebpf"
	"github.com/frobware/go-readahead/kernel"
	"github.com/frobware/go-readahead/manager"
)

func TestMain(m *testing.M) {
	// Fail fast on prerequisites
	if os.Geteuid() != 0 {
		fmt.Fprintln(os.Stderr, "e2e tests require root privileges")
		os.Exit(1)
	}
	if err := ebpf.RemoveMemlock(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func TestResolversAgree(t *testing.T) {
	RequireBTF(t)

	kallsyms := kernel.NewKallsyms(kernel.DefaultKallsymsPath)
	btf := kernel.NewBTF()

	fromKallsyms, err := compute.SelectVariant(readahead.Variants, kallsyms)
	require.NoError(t, err)
	fromBTF, err := compute.SelectVariant(readahead.Variants, btf)
	require.NoError(t, err)

	assert.Equal(t, fromKallsyms.Variant, fromBTF.Variant)
}

func TestAttachAll_RealKernel(t *testing.T) {
	RequireRoot(t)
	RequireBTF(t)
	object := RequireObject(t)
	ctx := context.Background()

	mgr := manager.New(kernel.NewKallsyms(kernel.DefaultKallsymsPath), ebpf.New(), testLogger())
	spec, err := mgr.Select(ctx)
	require.NoError(t, err)

	k, err := ebpf.New(ebpf.WithLogger(testLogger())).Load(ctx, object, spec)
	require.NoError(t, err)
	defer k.Close()

	sess, err := mgr.AttachAll(ctx, k, spec)
	require.NoError(t, err)

	handles := sess.Handles()
	require.Len(t, handles, len(spec.AllPoints()))
	for _, h := range handles {
		assert.NotZero(t, h.Link.ID(), "point %s", h.Point)
	}

	require.NoError(t, sess.Close())
	require.NoError(t, sess.Close())
}

func TestTrace_OneSecond(t *testing.T) {
	RequireRoot(t)
	RequireBTF(t)
	object := RequireObject(t)

	var out bytes.Buffer
	mgr := manager.New(
		kernel.NewKallsyms(kernel.DefaultKallsymsPath),
		ebpf.New(ebpf.WithLogger(testLogger())),
		testLogger(),
		manager.WithOutput(&out))

	done := make(chan error, 1)
	go func() {
		done <- mgr.Trace(context.Background(), object, readahead.TraceConfig{Duration: time.Second})
	}()
	generateReadahead(t)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(30 * time.Second):
		t.Fatal("trace did not finish")
	}

	assert.Contains(t, out.String(), manager.Banner)
	assert.Contains(t, out.String(), "Readahead unused/total pages: ")
}

func TestTrace_CancelEndsWindow(t *testing.T) {
	RequireRoot(t)
	RequireBTF(t)
	object := RequireObject(t)

	var out bytes.Buffer
	mgr := manager.New(
		kernel.NewKallsyms(kernel.DefaultKallsymsPath),
		ebpf.New(ebpf.WithLogger(testLogger())),
		testLogger(),
		manager.WithOutput(&out))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	err := mgr.Trace(ctx, object, readahead.TraceConfig{})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 30*time.Second)
	assert.Contains(t, out.String(), "Readahead unused/total pages: ")
}
