package discovery

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestProperty_SystemPortsNeverCandidates(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		port := rapid.Uint32Range(0, 1023).Draw(rt, "port")
		require.False(t, CandidatePort(port), "port %d is in the system range", port)
	})
}

func TestProperty_WellKnownServicesNeverCandidates(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		port := rapid.SampledFrom([]uint32{22, 25, 53, 80, 443, 3306, 5432, 6379, 27017}).Draw(rt, "port")
		require.False(t, CandidatePort(port), "well-known service port %d must be excluded", port)
	})
}

func TestProperty_EndpointSchemeFollowsPort(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		port := rapid.SampledFrom([]uint32{80, 443, 3000, 5000, 8000, 8080, 8443}).Draw(rt, "port")
		url := EndpointURL("10.1.2.3", port)

		if port == 443 {
			require.True(t, strings.HasPrefix(url, "https://"), "443 infers https, got %s", url)
		} else {
			require.True(t, strings.HasPrefix(url, "http://"), "only 443 infers https, got %s", url)
		}
		require.True(t, strings.HasSuffix(url, fmt.Sprintf(":%d", port)))
	})
}

func TestProperty_RegistryIndexing(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		nLocal := rapid.IntRange(0, 8).Draw(rt, "locals")
		nBrowser := rapid.IntRange(0, 8).Draw(rt, "browsers")

		locals := make([]Local, nLocal)
		for i := range locals {
			locals[i] = NewLocal(uint32(1024+i), int32(100+i), "proc", "")
		}
		browsers := make([]Browser, nBrowser)
		for i := range browsers {
			browsers[i] = NewBrowser(EndpointURL("10.0.0.1", 3000), int32(500+i), "chrome")
		}

		registry := NewRegistry("cycle", locals, browsers)
		require.Equal(t, nLocal+nBrowser, registry.Len())

		for i := 1; i <= registry.Len(); i++ {
			entry, err := registry.At(i)
			require.NoError(t, err)
			if i <= nLocal {
				require.Equal(t, KindLocal, entry.Kind(), "local entries come first")
				require.Equal(t, int32(100+i-1), entry.PID(), "detector order preserved")
			} else {
				require.Equal(t, KindBrowser, entry.Kind())
				require.Equal(t, int32(500+i-nLocal-1), entry.PID(), "detector order preserved")
			}
		}

		_, err := registry.At(0)
		require.Error(t, err)
		_, err = registry.At(registry.Len() + 1)
		require.Error(t, err)
	})
}

func TestProperty_PromptLabelCarriesIndexAndKind(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		index := rapid.IntRange(1, 999).Draw(rt, "index")
		port := rapid.Uint32Range(1024, 65535).Draw(rt, "port")
		pid := rapid.Int32Range(1, 1<<30).Draw(rt, "pid")

		label := PromptLabel(index, NewLocal(port, pid, "proc", ""))
		require.True(t, strings.HasPrefix(label, fmt.Sprintf("%d. LOCAL - Port %d", index, port)))
		require.Contains(t, label, fmt.Sprintf("(PID: %d)", pid))
	})
}
