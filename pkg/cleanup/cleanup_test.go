package cleanup_test

import (
	"errors"
	"testing"

	"github.com/limbo/ceoos/pkg/cleanup"
	"github.com/stretchr/testify/assert"
)

func TestCleanUp(t *testing.T) {
	var order []string
	cleanup.Register(&cleanup.Job{Name: "first", F: func() error {
		order = append(order, "first")
		return nil
	}})
	cleanup.Register(&cleanup.Job{Name: "second", F: func() error {
		order = append(order, "second")
		return errors.New("failed")
	}})
	cleanup.CleanUp()
	assert.Equal(t, []string{"second", "first"}, order)

	cleanup.CleanUp()
	assert.Len(t, order, 2)
}
