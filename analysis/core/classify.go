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

package core

import (
	"strings"

	"github.com/gmh5225/caracal/analysis/sierra"
)

// classifyCalls walks the statement list once and buckets every call site by
// the role of its callee. Callees are resolved by exact name against the
// whole-program function list; on duplicate names the first match in program
// order wins, with no ambiguity detection. An invocation the registry cannot
// resolve, or a callee absent from the function list, is left unclassified.
func (f *Function) classifyCalls(funcs []*Function, reg *sierra.Registry) {
	for i := range f.statements {
		s := &f.statements[i]
		if s.Invocation == nil {
			continue
		}
		callee, ok := reg.FunctionCallee(s.Invocation)
		if !ok {
			continue
		}
		for _, called := range funcs {
			if called.Name() != callee {
				continue
			}
			f.bucketCall(s, callee, called.Role())
			break
		}
	}
}

// bucketCall appends the call site to the bucket matching the callee's role.
// Storage accessors split on the accessor name suffix; an accessor that is
// neither a read nor a write (e.g. address) stays unclassified, as does any
// role with no bucket.
func (f *Function) bucketCall(s *sierra.Statement, callee string, role sierra.Role) {
	switch role {
	case sierra.RoleStorage:
		if strings.HasSuffix(callee, sierra.StorageReadSuffix) {
			f.storageReads = append(f.storageReads, s)
		} else if strings.HasSuffix(callee, sierra.StorageWriteSuffix) {
			f.storageWrites = append(f.storageWrites, s)
		}
	case sierra.RoleEvent:
		f.events = append(f.events, s)
	case sierra.RoleCore:
		f.coreCalls = append(f.coreCalls, s)
	case sierra.RolePrivate:
		f.privateCalls = append(f.privateCalls, s)
	case sierra.RoleAbiCallContract:
		f.externalCalls = append(f.externalCalls, s)
	case sierra.RoleAbiLibraryCall:
		f.libraryCalls = append(f.libraryCalls, s)
	}
}
