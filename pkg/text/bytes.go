// Copyright 2025 walteh LLC
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

package text

import "fmt"

var byteUnits = []string{"B", "KB", "MB", "GB", "TB"}

// 📏 FormatBytes renders n using the largest unit that keeps the value below
// 1024, with two decimals. TB is the largest unit; larger values stay in TB.
func FormatBytes(n int64) string {
	size := float64(n)
	for i, unit := range byteUnits {
		if size < 1024 || i == len(byteUnits)-1 {
			return fmt.Sprintf("%.2f %s", size, unit)
		}
		size /= 1024
	}
	// unreachable, the loop always returns on the last unit
	return fmt.Sprintf("%.2f %s", size, byteUnits[len(byteUnits)-1])
}
