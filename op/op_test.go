package op

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeString(t *testing.T) {
	assert.Equal(t, "GEN", Gen.String())
	assert.Equal(t, "CO_FINISH_SET_BRANCH", CoFinishSetBranch.String())
	assert.Contains(t, Code(255).String(), "INVALID")
}

func TestConstructors(t *testing.T) {
	i := CallFun[int](3, []int{0, 1})
	assert.Equal(t, Call, i.Code)
	assert.Equal(t, 3, i.FunID)
	assert.Equal(t, []int{0, 1}, i.Params)

	br := Br[int](7)
	assert.Equal(t, Branch, br.Code)
	assert.Equal(t, 7, br.Target)

	push := PushImmediate(42)
	assert.Equal(t, PushLocal, push.Code)
	assert.Equal(t, 42, push.Value)

	sw := SwapLocal[int](1, 2)
	assert.Equal(t, Swap, sw.Code)
	assert.Equal(t, 1, sw.A)
	assert.Equal(t, 2, sw.B)
}
