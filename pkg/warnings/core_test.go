package warnings

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetWarningWriterAndRestore(t *testing.T) {
	var buf bytes.Buffer
	restore := SetWarningWriter(&buf)

	Warnf("Warning: %s\n", "something happened")
	assert.Equal(t, "Warning: something happened\n", buf.String())

	restore()
	assert.NotEqual(t, &buf, WarningWriter())
}

func TestSetWarningWriterNilDefaultsToStderr(t *testing.T) {
	restore := SetWarningWriter(nil)
	defer restore()

	assert.NotNil(t, WarningWriter())
}

func TestCollectorSplitsLines(t *testing.T) {
	var c Collector
	restore := SetWarningWriter(&c)
	defer restore()

	Warnf("Warning: first\n")
	Warnf("Warning: second\n\n")

	messages := c.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, "Warning: first", messages[0])
	assert.Equal(t, "Warning: second", messages[1])
}

func TestCollectorEmpty(t *testing.T) {
	var c Collector
	assert.Nil(t, c.Messages())
}

func TestCollectorConcurrentWrites(t *testing.T) {
	var c Collector
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Write([]byte("Warning: concurrent\n"))
		}()
	}
	wg.Wait()

	assert.Len(t, c.Messages(), 20)
}
