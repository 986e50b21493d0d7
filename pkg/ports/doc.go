/*
Package ports defines the interfaces between the triage core and its adapters.

# Key Interfaces

  - Assistant: the driver port used by the HTTP and MCP adapters.
  - OutcomeRecorder: the driven port for aggregate outcome counters
    (in memory or Redis).

RunOutcomeRecorderContract verifies any OutcomeRecorder implementation.
*/
package ports
