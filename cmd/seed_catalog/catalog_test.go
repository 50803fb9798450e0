package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCatalog_UTF8(t *testing.T) {
	raw := []byte("nombre;unidad;precio_venta;precio_costo;iva;stock_central\n" +
		"Café 500g;bolsa;1.250,50;800;19;40\n" +
		"Arroz;;1500.00;1000;0;0\n")

	products, err := parseCatalog(raw)
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "Café 500g", products[0].Name)
	assert.Equal(t, "1250.5", products[0].SellPrice.String())
	assert.Equal(t, int64(40), products[0].TotalStock)
	assert.Equal(t, "unidad", products[1].Unit)
}

func TestParseCatalog_Latin1(t *testing.T) {
	// "Azúcar" en ISO-8859-1: ú = 0xFA
	raw := []byte("nombre;unidad;precio_venta;precio_costo;iva;stock_central\n" +
		"Az\xfacar;kg;3000;2000;5;10\n")

	products, err := parseCatalog(raw)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Azúcar", products[0].Name)
}

func TestParseCatalog_Errores(t *testing.T) {
	header := "nombre;unidad;precio_venta;precio_costo;iva;stock_central\n"
	cases := map[string]string{
		"nombre vacío":      header + ";kg;1;1;0;1\n",
		"precio negativo":   header + "X;kg;-1;1;0;1\n",
		"stock no numérico": header + "X;kg;1;1;0;muchos\n",
		"columnas de menos": header + "X;kg;1\n",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseCatalog([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestWriteSeedSQL(t *testing.T) {
	products, err := parseCatalog([]byte("n;u;p;c;i;s\nPan d'oro;unidad;100;50;0;5\n"))
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, writeSeedSQL(&b, products))
	assert.Contains(t, b.String(), "INSERT INTO products")
	assert.Contains(t, b.String(), "('Pan d''oro', 'unidad', 100, 50, 0, 5);")
}
