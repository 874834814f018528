// Package prefect holds the built-in operations against the Prefect
// GraphQL API.
package prefect

import (
	"github.com/pfadmin/pfadmin/internal/gql"
)

// Operation names.
const (
	OpAgentList           = "agent.list"
	OpProjectList         = "project.list"
	OpFlowList            = "flow.list"
	OpFlowQuery           = "flow.query"
	OpFlowScheduleEnable  = "flow.schedule_enable"
	OpFlowScheduleDisable = "flow.schedule_disable"
	OpFlowSetParameters   = "flow.set_parameters"
	OpFlowRunList         = "flow_run.list"
	OpSecretList          = "secret.list"
	OpSecretQuery         = "secret.query"
	OpSecretSet           = "secret.set"
	OpLogList             = "log.list"
)

// AgentList lists the registered agents.
var AgentList = gql.Descriptor{
	Name:        OpAgentList,
	Description: "List registered agents",
	Query:       `query {agents {id, core_version, name, type, created, updated, last_queried, labels }}`,
	Object:      "agents",
	Fields:      []string{"id", "core_version", "name", "type", "created", "updated", "last_queried", "labels"},
	Columns:     []string{"ID", "CORE_VER", "NAME", "TYPE", "CREATED", "UPDATED", "LAST_QUERIED", "LABELS"},
}

// ProjectList lists projects with their number of flow groups.
var ProjectList = gql.Descriptor{
	Name:        OpProjectList,
	Description: "List projects with their flow count",
	Query: `query {
  project {
    id, name, description, flows_aggregate(distinct_on: flow_group_id) { aggregate { count } }
  }
}`,
	Object:  "project",
	Fields:  []string{"id", "name", "description", "flows_aggregate.aggregate.count"},
	Columns: []string{"ID", "NAME", "DESCRIPTION", "NUM_FLOWS"},
}

// FlowList lists flows, optionally filtered by $archived.
var FlowList = gql.Descriptor{
	Name:        OpFlowList,
	Description: "List flows, newest version first",
	Query: `query F($archived: Boolean) {
  flow(where: {archived: {_eq: $archived}}, limit: 100, order_by: {version: desc, created: asc, updated: desc}) {
    id, version, name, archived, created, updated, is_schedule_active, flow_group_id, run_config
  }
}`,
	Object:  "flow",
	Fields:  []string{"version", "archived", "id", "name", "created", "updated", "is_schedule_active", "flow_group_id", "run_config.labels"},
	Columns: []string{"VER", "ARCHIVED", "ID", "NAME", "CREATED", "UPDATED", "SCHEDULED", "GROUP_ID", "LABELS"},
}

// FlowQuery shows the versions of one flow with its parameters.
var FlowQuery = gql.Descriptor{
	Name:        OpFlowQuery,
	Description: "Show flow versions by name with parameters",
	Query: `query F($flow_name: String, $archived: Boolean) {
  flow(where: {name: {_eq: $flow_name}, _and: {archived: {_eq: $archived}}}, limit: 100, order_by: {version: desc, created: asc, updated: desc}) {
    id, version, name, archived, created, updated, is_schedule_active, flow_group_id, run_config, parameters, flow_group { default_parameters }
  }
}`,
	Object: "flow",
	Fields: []string{
		"version", "archived", "id", "name", "created", "updated", "is_schedule_active", "flow_group_id",
		"run_config.labels", "parameters[*][name,default,required]", "flow_group.default_parameters",
	},
	Columns: []string{
		"VER", "ARCHIVED", "ID", "NAME", "CREATED", "UPDATED", "SCHEDULED", "GROUP_ID",
		"LABELS", "PARAMETERS(NAME,DFLT,REQ)", "DEFAULT_PARAMETERS",
	},
}

// FlowScheduleEnable activates the schedule of $flow_id.
var FlowScheduleEnable = gql.Descriptor{
	Name:        OpFlowScheduleEnable,
	Description: "Activate the schedule of a flow",
	Query: `mutation F($flow_id: UUID) {
  set_schedule_active(input: {flow_id: $flow_id}) { success }
}`,
	Object: "set_schedule_active",
}

// FlowScheduleDisable deactivates the schedule of $flow_id.
var FlowScheduleDisable = gql.Descriptor{
	Name:        OpFlowScheduleDisable,
	Description: "Deactivate the schedule of a flow",
	Query: `mutation F($flow_id: UUID) {
  set_schedule_inactive(input: {flow_id: $flow_id}) { success }
}`,
	Object: "set_schedule_inactive",
}

// FlowSetParameters sets the default parameters of $flow_group_id.
var FlowSetParameters = gql.Descriptor{
	Name:        OpFlowSetParameters,
	Description: "Set the default parameters of a flow group",
	Query: `mutation F($flow_group_id: UUID!, $parameters: JSON!) {
  set_flow_group_default_parameters(input: {flow_group_id: $flow_group_id, parameters: $parameters}) { success }
}`,
	Object: "set_flow_group_default_parameters",
}

// FlowRunList lists the runs of the flow named $flow_name.
var FlowRunList = gql.Descriptor{
	Name:        OpFlowRunList,
	Description: "List runs of a flow",
	Query: `query F($flow_name: String) {
  flow_run(where: {flow: {name: {_eq: $flow_name}}}) {
    id, version, name, state, state_message, agent { id, name }, start_time, end_time, labels, run_config, scheduled_start_time
  }
}`,
	Object: "flow_run",
	Fields: []string{
		"id", "version", "name", "agent.id", "agent.name", "state", "state_message",
		"scheduled_start_time", "start_time", "end_time", "labels", "run_config.labels",
	},
	Columns: []string{
		"ID", "VER", "NAME", "AGENT_ID", "AGENT", "STATE", "STATE_MESSAGE",
		"SCHEDULED_AT", "START", "END", "LABEL", "RUN_CONFIG_LABELS",
	},
}

// SecretList lists secret names.
var SecretList = gql.Descriptor{
	Name:        OpSecretList,
	Description: "List secret names",
	Query:       `query {secret_names}`,
	Object:      "secret_names",
	Fields:      []string{"secret_name"},
	Columns:     []string{"SECRET"},
}

// SecretValue reads one secret value. It backs SecretQuery.
var SecretValue = gql.Descriptor{
	Name:        OpSecretQuery,
	Description: "Show secret values; secret_name=all queries every secret",
	Query:       `query F($secret_name: String) {secret_value(name: $secret_name)}`,
	Object:      "secret_value",
	Fields:      []string{"secret_name", "secret_value"},
	Columns:     []string{"SECRET", "VALUE"},
}

// SecretSet creates or updates a secret from $input. The input is
// redacted in history.
var SecretSet = gql.Descriptor{
	Name:        OpSecretSet,
	Description: "Create or update a secret",
	Query: `mutation F($input: set_secret_input!) {
  set_secret(input: $input) { success }
}`,
	Object: "set_secret",
	Redact: []string{"input"},
}

// LogList lists flow run logs matching $where_.
var LogList = gql.Descriptor{
	Name:        OpLogList,
	Description: "List flow run logs matching where_",
	Query: `query F($where_: log_bool_exp) {
  log(where: $where_) {
    id, flow_run_id, name, message
  }
}`,
	Object: "log",
	Fields: []string{"id", "flow_run_id", "name", "message"},
}

// Builtins returns the descriptors executed with the generic query. The
// package variables are shared; callers must not modify them.
func Builtins() []gql.Descriptor {
	return []gql.Descriptor{
		AgentList,
		ProjectList,
		FlowList,
		FlowQuery,
		FlowScheduleEnable,
		FlowScheduleDisable,
		FlowSetParameters,
		FlowRunList,
		SecretList,
		SecretSet,
		LogList,
	}
}

// Register adds every built-in operation to reg.
func Register(reg *gql.Registry) error {
	if err := reg.RegisterAll(Builtins()); err != nil {
		return err
	}
	return reg.Register(SecretValue, func(c gql.Client) gql.Executor {
		return NewSecretQuery(c)
	})
}
