// Package schema provides the metamodel loaded by readers and walked by
// emitters.
//
// A Model holds entities and enumerations in a single namespace:
//
//   - Entity: a named list of properties
//   - Property: a name, a numeric tag and a [datatype.Type]
//   - Enumeration: a named list of values
//
// Models are filled by the readers of compiler/load and are read-only once
// generation starts.
//
//	m := schema.NewModel()
//	user := schema.NewEntity("User")
//	name, _ := schema.NewProperty("name", 1, "string")
//	_ = user.AddProperty(name)
//	_ = m.AddEntity(user)
//	if err := m.Validate(); err != nil {
//		// unknown reference types, invalid defaults...
//	}
package schema
