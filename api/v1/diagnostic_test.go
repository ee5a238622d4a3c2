package v1

import (
	"os"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceDesc_MatchesProto(t *testing.T) {
	raw, err := os.ReadFile("../proto/" + ServiceDesc.Metadata.(string))
	require.NoError(t, err)
	proto := string(raw)

	assert.Contains(t, proto, "package diagnostic.v1;")
	assert.Contains(t, proto, "service DiagnosticService {")

	rpc := regexp.MustCompile(`rpc (\w+)\(google\.protobuf\.Struct\) returns \(google\.protobuf\.Struct\);`)
	var declared []string
	for _, m := range rpc.FindAllStringSubmatch(proto, -1) {
		declared = append(declared, m[1])
	}

	var registered []string
	for _, m := range ServiceDesc.Methods {
		registered = append(registered, m.MethodName)
	}
	assert.Equal(t, registered, declared)
}
