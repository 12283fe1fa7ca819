/*
Package cv implements correlation vectors: compact strings that are propagated between services
to correlate causally related events.

A vector is a base followed by dot separated extensions, for example

	tul4NUsfs9Cl7mOf.1.4

The base identifies the root of a causal tree. Each service that receives a vector extends it
at the entry point of an operation and increments it before every outbound call:

	v, err := cv.Extend(r.Header.Get("MS-CV"))
	if err != nil {
		v = cv.New()
	}
	req.Header.Set("MS-CV", v.Increment())

Two versions of the wire format exist. V1 uses a 16 character base and a 63 character budget,
V2 a 22 character base, usually derived from a UUID, and a 127 character budget. Only V2
supports the spin operator, which inserts a time and entropy derived extension so that
concurrent branches entered from the same vector stay distinguishable.

When a mutation would push a vector past its budget the vector is sealed instead: its value
gains a trailing "!" and no further operation changes it. Overflow is never reported as an
error.
*/
package cv
