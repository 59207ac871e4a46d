// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arguments

import "fmt"

// ErrorKind identifies one of the binding error conditions of §7.
type ErrorKind int

const (
	MissingParameter ErrorKind = iota
	RepeatedParameter
	ExtraPositionalParameters
	ExtraNamedParameters
	WrongNumberOfParameters
	ArgsValueIsNotString
	ArgsArrayIsNotIterable
	KwArgsIsNotDict
	MissingThis
)

func (k ErrorKind) String() string {
	switch k {
	case MissingParameter:
		return "MissingParameter"
	case RepeatedParameter:
		return "RepeatedParameter"
	case ExtraPositionalParameters:
		return "ExtraPositionalParameters"
	case ExtraNamedParameters:
		return "ExtraNamedParameters"
	case WrongNumberOfParameters:
		return "WrongNumberOfParameters"
	case ArgsValueIsNotString:
		return "ArgsValueIsNotString"
	case ArgsArrayIsNotIterable:
		return "ArgsArrayIsNotIterable"
	case KwArgsIsNotDict:
		return "KwArgsIsNotDict"
	case MissingThis:
		return "MissingThis"
	default:
		return "UnknownBindError"
	}
}

// BindError is returned by ParameterSpec.Bind and the Arguments
// extraction helpers. Name and Signature are populated where the kind
// calls for them; Count carries the offending count for
// ExtraPositionalParameters; Min/Count/Max describe the acceptable range
// for WrongNumberOfParameters (raised by the fused-positional helpers
// Arguments.FusedPositional/Arguments.Optional, Min==Max meaning an exact
// count was required).
type BindError struct {
	Kind      ErrorKind
	Name      string
	Signature string
	Count     int
	Min, Max  int
}

func (e *BindError) Error() string {
	switch e.Kind {
	case MissingParameter:
		return fmt.Sprintf("missing required parameter %q in call to %s", e.Name, e.Signature)
	case RepeatedParameter:
		return fmt.Sprintf("parameter %q was passed more than once", e.Name)
	case ExtraPositionalParameters:
		return fmt.Sprintf("too many positional arguments for %s (%d extra)", e.Signature, e.Count)
	case ExtraNamedParameters:
		return fmt.Sprintf("unexpected named argument %q for %s", e.Name, e.Signature)
	case WrongNumberOfParameters:
		if e.Min == e.Max {
			return fmt.Sprintf("wrong number of positional parameters, expected %d, got %d", e.Min, e.Count)
		}
		return fmt.Sprintf("wrong number of positional parameters, expected between %d and %d, got %d", e.Min, e.Max, e.Count)
	case ArgsValueIsNotString:
		return "keyword argument keys must be strings"
	case ArgsArrayIsNotIterable:
		return "*args value is not iterable"
	case KwArgsIsNotDict:
		return "**kwargs value is not a dict"
	case MissingThis:
		return fmt.Sprintf("call to %s is missing its receiver", e.Signature)
	default:
		return e.Kind.String()
	}
}
