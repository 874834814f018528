package prefect

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfadmin/pfadmin/internal/gql"
	"github.com/pfadmin/pfadmin/internal/graphql/mock"
	"github.com/pfadmin/pfadmin/pkg/types"
)

func TestRegister(t *testing.T) {
	reg := gql.NewRegistry()
	require.NoError(t, Register(reg))

	want := []string{
		OpAgentList, OpFlowList, OpFlowQuery, OpFlowScheduleDisable, OpFlowScheduleEnable,
		OpFlowSetParameters, OpFlowRunList, OpLogList, OpProjectList, OpSecretList,
		OpSecretQuery, OpSecretSet,
	}
	assert.ElementsMatch(t, want, reg.Names())

	// registering twice must fail on the first duplicate
	assert.ErrorIs(t, Register(reg), gql.ErrDuplicate)
}

func TestBuiltinsAreValid(t *testing.T) {
	res := gql.ValidateAll(append(Builtins(), SecretValue))
	assert.True(t, res.Valid, res.FormatErrors())
}

func TestMutationsHaveNoFields(t *testing.T) {
	for _, d := range []gql.Descriptor{FlowScheduleEnable, FlowScheduleDisable, FlowSetParameters, SecretSet} {
		assert.True(t, d.IsMutation(), d.Name)
		assert.Empty(t, d.Fields, d.Name)
	}
}

func TestSecretListShape(t *testing.T) {
	client := mock.New(mock.Config{Data: map[string]any{"secret_names": []any{"a", "b"}}})

	res, err := gql.New(client, SecretList).Execute(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"SECRET"}, res.Columns)
	assert.Equal(t, [][]any{{"a"}, {"b"}}, res.Rows)
}

func TestProjectListFlowCount(t *testing.T) {
	client := mock.New(mock.Config{Data: map[string]any{"project": []any{
		map[string]any{
			"id": "p1", "name": "etl", "description": nil,
			"flows_aggregate": map[string]any{"aggregate": map[string]any{"count": 4.0}},
		},
	}}})

	res, err := gql.New(client, ProjectList).Execute(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "4", gql.FormatCell(res.Rows[0][3]))
	assert.Equal(t, "", gql.FormatCell(res.Rows[0][2]))
}

func TestFlowRunListMissingAgent(t *testing.T) {
	client := mock.New(mock.Config{Data: map[string]any{"flow_run": []any{
		map[string]any{"id": "r1", "name": "brave-fox", "agent": nil, "state": "Scheduled", "labels": []any{"prod"}},
	}}})

	res, err := gql.New(client, FlowRunList).Execute(context.Background(), types.Variables{"flow_name": "etl"})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	row := res.Rows[0]
	assert.Equal(t, "r1", row[0])
	assert.Nil(t, row[3])
	assert.Nil(t, row[4])
	assert.Equal(t, "prod", gql.FormatCell(row[10]))
	assert.Equal(t, "etl", client.Calls()[0].Variables["flow_name"])
}

func secretHandler(values map[string]string, names []any) func(string, map[string]any) (map[string]any, error) {
	return func(query string, vars map[string]any) (map[string]any, error) {
		if strings.Contains(query, "secret_names") {
			return map[string]any{"secret_names": names}, nil
		}
		name, _ := vars["secret_name"].(string)
		v, ok := values[name]
		if !ok {
			return map[string]any{"secret_value": nil}, nil
		}
		return map[string]any{"secret_value": v}, nil
	}
}

func TestSecretQueryOne(t *testing.T) {
	client := mock.New(mock.Config{Handler: secretHandler(map[string]string{"DB": "pw"}, nil)})

	res, err := NewSecretQuery(client).Execute(context.Background(), types.Variables{"secret_name": "DB"})
	require.NoError(t, err)

	assert.Equal(t, []string{"SECRET", "VALUE"}, res.Columns)
	assert.Equal(t, [][]any{{"DB", "pw"}}, res.Rows)
	assert.Equal(t, []any{[]any{"DB", "pw"}}, res.Raw)
	assert.Len(t, client.Calls(), 1)
}

func TestSecretQueryAll(t *testing.T) {
	client := mock.New(mock.Config{Handler: secretHandler(
		map[string]string{"A": "1", "B": "2"},
		[]any{"A", "B", "GONE"},
	)})

	res, err := NewSecretQuery(client).Execute(context.Background(), types.Variables{"secret_name": SecretAll})
	require.NoError(t, err)

	assert.Equal(t, [][]any{{"A", "1"}, {"B", "2"}, {"GONE", nil}}, res.Rows)
	// one list call plus one call per secret
	assert.Len(t, client.Calls(), 4)
}

func TestSecretQueryDefaultsToAll(t *testing.T) {
	client := mock.New(mock.Config{Handler: secretHandler(map[string]string{}, []any{})})

	res, err := NewSecretQuery(client).Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
	assert.Len(t, client.Calls(), 1)
}

func TestSecretQueryError(t *testing.T) {
	client := mock.New(mock.Config{Err: errors.New("unauthorized")})

	_, err := NewSecretQuery(client).Execute(context.Background(), types.Variables{"secret_name": "DB"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB")
}

func TestSecretQueryAllIsSequential(t *testing.T) {
	var (
		mu       sync.Mutex
		inFlight int
		maxSeen  int
		order    []string
	)
	client := mock.New(mock.Config{Handler: func(query string, vars map[string]any) (map[string]any, error) {
		if query == SecretList.Query {
			return map[string]any{"secret_names": []any{"C", "A", "B"}}, nil
		}
		mu.Lock()
		inFlight++
		maxSeen = max(maxSeen, inFlight)
		order = append(order, vars["secret_name"].(string))
		mu.Unlock()

		time.Sleep(5 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()
		return map[string]any{"secret_value": "v"}, nil
	}})

	_, err := NewSecretQuery(client).Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, maxSeen)
	assert.Equal(t, []string{"C", "A", "B"}, order)
}

func TestSecretQueryStopsAtFirstError(t *testing.T) {
	client := mock.New(mock.Config{Handler: func(query string, vars map[string]any) (map[string]any, error) {
		if query == SecretList.Query {
			return map[string]any{"secret_names": []any{"A", "B", "C"}}, nil
		}
		if vars["secret_name"] == "A" {
			return nil, errors.New("forbidden")
		}
		return map[string]any{"secret_value": "v"}, nil
	}})

	_, err := NewSecretQuery(client).Execute(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"A"`)
	// the list call plus A only
	assert.Len(t, client.Calls(), 2)
}
