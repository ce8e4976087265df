package lispy

import "math"

// Equals reports structural equality: lists are equal when their elements are.
func Equals(v1, v2 Value) bool {
	list1, isList1 := v1.(List)
	list2, isList2 := v2.(List)
	if isList1 && isList2 {
		return sliceEquals(list1, list2)
	}

	return v1 == v2
}

func sliceEquals(slice1, slice2 []Value) bool {
	if len(slice1) != len(slice2) {
		return false
	}
	for i := 0; i < len(slice1); i++ {
		if !Equals(slice1[i], slice2[i]) {
			return false
		}
	}
	return true
}

// Identical reports whether v1 and v2 are the same object. Atoms are compared
// by value; lists only match when they share storage.
func Identical(v1, v2 Value) bool {
	list1, isList1 := v1.(List)
	list2, isList2 := v2.(List)
	if isList1 || isList2 {
		if !isList1 || !isList2 || len(list1) != len(list2) {
			return false
		}
		return len(list1) == 0 || &list1[0] == &list2[0]
	}

	n1, isNum1 := v1.(Number)
	n2, isNum2 := v2.(Number)
	if isNum1 && isNum2 && math.IsNaN(float64(n1)) {
		return math.IsNaN(float64(n2))
	}
	return v1 == v2
}
