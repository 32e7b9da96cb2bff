/*
Package domain contains the data model of the session layer.

It is kept free of I/O and persistence concerns: storage adapters and the
session store build on these types through the ports package.

# Key Entities

  - Session: the opaque per-scope state blob (string keys, JSON values).
  - Members: the insertion-ordered associative structure stored under the
    "members" field, which may carry non-string keys.
  - Update: the identity of one inbound bot update (sender and conversation).
*/
package domain
