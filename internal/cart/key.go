package cart

// keySeparator no aparece en los identificadores generados (ObjectID hex, UUID).
const keySeparator = "__"

// Key identifica una línea del carrito por producto y variante opcional.
// Es la única forma de localizar, fusionar o eliminar una línea.
func Key(productID, variantID string) string {
	if variantID == "" {
		return productID
	}
	return productID + keySeparator + variantID
}
