// Package container decodes and encodes asset containers.
//
// A container starts with the "APAK" magic and a section table; each
// table entry names a section id, a type tag and the payload offset
// relative to the end of the table. Decode walks the table, dispatches
// each payload to the parser registered for its tag and returns the typed
// resources:
//
//	c, err := container.Decode(data, container.WithStringMask(0x5A))
//	if err != nil {
//	    return err // truncated buffer
//	}
//	for _, skipped := range c.Errors {
//	    log.Println(skipped)
//	}
//	names := c.Strings(1)
//
// Record sections are descrambled while decoding and exposed through
// cache.Table. Emitter references to other emitters and sounds are held
// as link.Link values and resolved against a namespace on first use; see
// Mount and Resolver.
package container
