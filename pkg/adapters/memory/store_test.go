package memory_test

import (
	"testing"

	"github.com/aretw0/selim/pkg/adapters/memory"
	"github.com/aretw0/selim/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunTranscriptStoreContract(t, memory.NewStore())
}
