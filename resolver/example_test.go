package resolver_test

import (
	"fmt"
	"log"

	"github.com/erraggy/oasexplorer/document"
	"github.com/erraggy/oasexplorer/resolver"
)

func ExampleResolver_Resolve() {
	doc, err := document.Parse([]byte(`
openapi: 3.0.3
paths:
  /pets:
    get:
      responses:
        "200":
          $ref: '#/components/responses/PetList'
components:
  responses:
    PetList:
      description: A list of pets
`))
	if err != nil {
		log.Fatal(err)
	}

	r := resolver.New(doc)
	responses := doc.Operation("get", "/pets", false).Object("responses")
	fmt.Println(document.Plain(r.Resolve(responses)))
	// Output:
	// map[200:map[description:A list of pets]]
}

func ExampleResolver_ResolveRef() {
	doc, err := document.Parse([]byte(`
openapi: 3.0.3
paths: {}
components:
  schemas:
    Node:
      type: object
      properties:
        children:
          type: array
          items:
            $ref: '#/components/schemas/Node'
        owner:
          $ref: '#/components/schemas/Owner'
`))
	if err != nil {
		log.Fatal(err)
	}

	node := resolver.New(doc).ResolveRef("#/components/schemas/Node")
	for _, m := range resolver.Markers(node) {
		fmt.Println(m)
	}
	// Output:
	// #/components/schemas/Node (circular)
	// #/components/schemas/Owner (notFound)
}
