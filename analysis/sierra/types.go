// Copyright the caracal authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sierra

import "fmt"

// Role classifies a program function. Roles are assigned once, by the
// whole-program classification phase, before any analysis runs.
type Role int

const (
	// RoleExternal is an external function defined by the user.
	RoleExternal Role = iota
	// RoleView is a view function defined by the user.
	RoleView
	// RolePrivate is a private function defined by the user.
	RolePrivate
	// RoleConstructor is a constructor function defined by the user.
	RoleConstructor
	// RoleEvent is an event function.
	RoleEvent
	// RoleStorage is a compiler-made accessor for a storage variable,
	// typically address, read and write.
	RoleStorage
	// RoleWrapper is a compiler-made wrapper around an external function.
	RoleWrapper
	// RoleCore is a function of the core library.
	RoleCore
	// RoleAbiCallContract is a function of an ABI trait that does a
	// contract call.
	RoleAbiCallContract
	// RoleAbiLibraryCall is a function of an ABI trait that does a library
	// call.
	RoleAbiLibraryCall
	// RoleL1Handler is an L1 handler function.
	RoleL1Handler
)

var roleNames = map[Role]string{
	RoleExternal:        "external",
	RoleView:            "view",
	RolePrivate:         "private",
	RoleConstructor:     "constructor",
	RoleEvent:           "event",
	RoleStorage:         "storage",
	RoleWrapper:         "wrapper",
	RoleCore:            "core",
	RoleAbiCallContract: "abi-call-contract",
	RoleAbiLibraryCall:  "abi-library-call",
	RoleL1Handler:       "l1-handler",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// RoleFromString parses the role name used in compiled artifacts.
func RoleFromString(s string) (Role, error) {
	for r, name := range roleNames {
		if name == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown function role %q", s)
}

// Suffixes of the compiler-made storage accessor names.
const (
	StorageReadSuffix  = "read"
	StorageWriteSuffix = "write"
)

// builtins are the implicit types the compiler threads through every
// signature: gas and resource counters and system handles.
var builtins = map[string]bool{
	"RangeCheck":   true,
	"Bitwise":      true,
	"EcOp":         true,
	"Pedersen":     true,
	"Poseidon":     true,
	"SegmentArena": true,
	"GasBuiltin":   true,
	"System":       true,
}

// IsBuiltin reports whether the type name is one of the compiler's implicit
// builtin types.
func IsBuiltin(typeName string) bool {
	return builtins[typeName]
}

// Param is a declared function parameter: a variable id and its type name.
type Param struct {
	ID string
	Ty string
}

// FuncDecl is the compiler-emitted declaration of a program function: its
// name, absolute entry offset and signature. Statement i of the function
// lives at absolute offset EntryPoint+i.
type FuncDecl struct {
	ID          string
	EntryPoint  int
	Params      []Param
	ReturnTypes []string
}
