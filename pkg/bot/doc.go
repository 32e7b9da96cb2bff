/*
Package bot provides the minimal request pipeline the session interception
points plug into: a per-update Context with a property bag, and composable
Handler/Middleware functions.

It stands in for a full bot framework's dispatch chain. Adapters for a real
framework only need to build a Context from their update and call a Handler.
*/
package bot
