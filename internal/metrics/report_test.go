package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSimpleCounter(t *testing.T) {
	assert := assert.New(t)

	c := &SimpleCounter{}
	bytes, tokens, lines := c.Count("hello world\nsecond line\n")

	assert.Equal(24, bytes)
	assert.Equal(6, tokens)
	assert.Equal(3, lines)
}

func TestReportAccumulatesByKey(t *testing.T) {
	assert := assert.New(t)

	r := NewReport(&SimpleCounter{}, 4)
	r.Add("file", "a.txt", []byte("aaaa"))
	r.Add("file", "a.txt", []byte("bbbb"))
	r.Add("file", "b.txt", []byte("cc"))
	r.Add("tree", "diagram", []byte("dddd\n"))
	r.Wait()

	items := r.Items()
	assert.Len(items, 3)
	assert.Equal(8, items[SectionKey{Kind: "file", Name: "a.txt"}].Bytes)
	assert.Equal(2, items[SectionKey{Kind: "file", Name: "b.txt"}].Bytes)
	assert.Equal(5, items[SectionKey{Kind: "tree", Name: "diagram"}].Bytes)
}

func TestReportSumByAndTotal(t *testing.T) {
	assert := assert.New(t)

	r := NewReport(&SimpleCounter{}, 2)
	r.Add("file", "a.txt", []byte("aaaa"))
	r.Add("file", "b.txt", []byte("bb"))
	r.Add("header", "header", []byte("hhh"))
	r.Wait()

	assert.Equal(6, r.SumBy("file").Bytes)
	assert.Equal(3, r.SumBy("header").Bytes)
	assert.Equal(0, r.SumBy("tree").Bytes)
	assert.Equal(9, r.Total().Bytes)
}

func TestReportWaitReturnsWithIdleWorkers(t *testing.T) {
	// More workers than jobs, and Wait called immediately, so some workers
	// first see the channel only after it has been closed.
	r := NewReport(&SimpleCounter{}, 16)
	r.Add("file", "a.txt", []byte("xx"))

	done := make(chan struct{})
	go func() {
		r.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Wait did not return")
	}
	assert.Equal(t, 2, r.Total().Bytes)
}

func TestReportWaitIdempotent(t *testing.T) {
	r := NewReport(&SimpleCounter{}, 1)
	r.Add("file", "a.txt", []byte("x"))
	r.Wait()
	r.Wait()

	assert.Equal(t, 1, r.Total().Bytes)
}

func TestReportManyConcurrentAdds(t *testing.T) {
	assert := assert.New(t)

	r := NewReport(&SimpleCounter{}, 8)
	for i := 0; i < 200; i++ {
		r.Add("file", fmt.Sprintf("f%03d.txt", i), []byte("0123456789"))
	}
	r.Wait()

	assert.Len(r.Items(), 200)
	assert.Equal(2000, r.Total().Bytes)
}

func TestSectionKeyString(t *testing.T) {
	key := SectionKey{Kind: "file", Name: "src/main.go"}
	assert.Equal(t, "file:src/main.go", key.String())
}
