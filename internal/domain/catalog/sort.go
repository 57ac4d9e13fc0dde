package catalog

import "sort"

func sortByPosition(products []CollectionProduct) {
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Position < products[j].Position
	})
}
