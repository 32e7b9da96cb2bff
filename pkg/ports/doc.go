/*
Package ports defines the driven ports (interfaces) of the session layer.

These interfaces decouple session semantics from the storage client, so the
same store and interception points work over Redis, memory, or a decorated
backend.

# Key Interfaces

  - Backend: the textual key-value store (GET, SET, DEL, EXPIRE).
  - SessionStore: load, save and clear of a decoded Session by key.
*/
package ports
