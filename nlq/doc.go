// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package nlq parses free-text course questions into structured
// constraints.
//
// The parser is an ordered chain of rule-based extractors, each
// inspecting the question for one kind of token: department, cohort,
// requirement status, weekday, and time band. No learned model is
// involved; the same question always yields the same constraints.
//
// When a token appears more than once (two weekday mentions, say) the
// mention occurring last in the question wins. Ambiguity never
// produces an error, only a less specific interpretation.
package nlq
