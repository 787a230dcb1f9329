package stacktrace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternalPaths(t *testing.T) {
	stack := []byte(`goroutine 7 [running]:
runtime/debug.Stack()
	/usr/local/go/src/runtime/debug/stack.go:26 +0x5e
github.com/shandysiswandi/greenvista/internal/pkg/goroutine.(*Manager).Go.func1.1()
	/src/internal/pkg/goroutine/goroutine.go:61 +0x6c
panic({0x10a3f20?, 0x12f1e40?})
	/usr/local/go/src/runtime/panic.go:785 +0x132
github.com/shandysiswandi/greenvista/internal/servicerequest/usecase.(*Usecase).notify(...)
	/src/internal/servicerequest/usecase/notify.go:18
`)

	assert.Equal(t, []string{
		"internal/pkg/goroutine/goroutine.go:61",
		"internal/servicerequest/usecase/notify.go:18",
	}, InternalPaths(stack))
	assert.Empty(t, InternalPaths(nil))
}
