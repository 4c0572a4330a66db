// Package repository define los tipos de dominio y las interfaces de
// persistencia del servicio: usuarios, aplicaciones cliente y
// autorizaciones permanentes. Las implementaciones viven en internal/store.
package repository
