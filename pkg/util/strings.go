package util

import "sort"

// UniqueSorted returns the sorted unique non-empty values from names.
func UniqueSorted(names []string) []string {
	present := make(map[string]bool, len(names))
	var list []string

	for _, name := range names {
		if name == "" || present[name] {
			continue
		}
		present[name] = true
		list = append(list, name)
	}

	sort.Strings(list)
	return list
}
