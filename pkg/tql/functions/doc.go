// Package functions holds the built-in function registry of tql.
//
// Built-ins are declared as Descriptors with a name, aliases, an Arity and a
// Func. The registry returned by Default is built once and shared read-only
// by every engine.
//
// Pipe-consuming built-ins receive the current value as args[0], followed
// by one collapsed value per written argument. Aggregations such as stats
// ignore the input and read the document through Env.
package functions
