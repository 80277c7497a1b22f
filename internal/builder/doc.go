// Package builder is the OpenGL program builder: it turns a compile request
// into an invocation of the external compiler tool and classifies the
// outcome.
//
// A Compile call runs through four stages:
//
//  1. the request is encoded into the tool's positional argument (vccmd);
//  2. the tool is launched with the bounded retry schedule (invoker);
//  3. the captured output is searched for an error marker;
//  4. the promised artifacts are checked on disk (verify).
//
// The result is one of the statuses of package status. Only a compiler
// error carries the tool's output back to the caller; every other outcome
// discards it.
//
// The builder also answers the read-only questions around a compile: the
// tool's OpenGL version, the family/revision pair of a device name and the
// list of devices that can be targeted.
package builder
