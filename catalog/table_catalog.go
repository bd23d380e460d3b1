package catalog

import (
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/parquet"
	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQE/common"
	"github.com/ryogrid/SamehadaQE/storage/columnar"
	"github.com/ryogrid/SamehadaQE/types"
	"github.com/sasha-s/go-deadlock"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// TableCatalog is an in memory catalog. It is created explicitly and handed
// to the planner and executors which need it.
type TableCatalog struct {
	mutex      deadlock.RWMutex
	tableNames map[string]*TableMetadata
}

func NewTableCatalog() *TableCatalog {
	return &TableCatalog{tableNames: make(map[string]*TableMetadata)}
}

// BootstrapCatalogFromConfig registers every table of cfg. Tables without a
// column list get their schema from the file at their path.
func BootstrapCatalogFromConfig(cfg *common.EngineConfig) (*TableCatalog, error) {
	c := NewTableCatalog()
	for _, t := range cfg.Tables {
		if len(t.Columns) == 0 {
			if _, err := c.RegisterFile(t.Name, t.Path); err != nil {
				return nil, err
			}
			continue
		}
		schema, err := SchemaFromColumnConfigs(t.Columns)
		if err != nil {
			return nil, errors.Annotatef(err, "table %s", t.Name)
		}
		if _, err := c.AddTableWithFile(t.Name, schema, t.Path); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func SchemaFromColumnConfigs(cols []common.ColumnConfig) (*arrow.Schema, error) {
	fields := make([]arrow.Field, 0, len(cols))
	for _, col := range cols {
		typ, err := types.ParseTypeName(col.Type)
		if err != nil {
			return nil, errors.Annotatef(err, "column %s", col.Name)
		}
		fields = append(fields, arrow.Field{Name: col.Name, Type: typ.ArrowType(), Nullable: col.Nullable})
	}
	return arrow.NewSchema(fields, nil), nil
}

func (c *TableCatalog) AddTable(name string, schema *arrow.Schema) (*TableMetadata, error) {
	return c.addTable(name, schema, TableLocation{})
}

func (c *TableCatalog) AddTableWithFile(name string, schema *arrow.Schema, filePath string) (*TableMetadata, error) {
	return c.addTable(name, schema, TableLocation{FilePath: filePath})
}

// AddTableWithSource registers a table backed by an in memory columnar file.
func (c *TableCatalog) AddTableWithSource(name string, schema *arrow.Schema, src parquet.ReaderAtSeeker) (*TableMetadata, error) {
	common.SH_Assert(src != nil, "source of table must not be nil")
	return c.addTable(name, schema, TableLocation{Source: src})
}

func (c *TableCatalog) addTable(name string, schema *arrow.Schema, location TableLocation) (*TableMetadata, error) {
	if name == "" {
		return nil, errors.New("table name is empty")
	}
	common.SH_Assert(schema != nil, "schema of table must not be nil")

	c.mutex.Lock()
	defer c.mutex.Unlock()
	if _, ok := c.tableNames[name]; ok {
		return nil, errors.Errorf("Catalog Error: Table with name %s already exists", name)
	}
	meta := NewTableMetadata(name, schema, location)
	c.tableNames[name] = meta
	common.ShPrintf(common.DEBUG_INFO, "catalog: added table %s cols=%d path=%q\n", name, schema.NumFields(), location.FilePath)
	return meta, nil
}

// RegisterFile adds a table whose schema is read from the columnar file at path.
func (c *TableCatalog) RegisterFile(name string, path string) (*TableMetadata, error) {
	schema, err := columnar.ReadSchema(path)
	if err != nil {
		return nil, err
	}
	return c.AddTableWithFile(name, schema, path)
}

func (c *TableCatalog) DropTable(name string) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if _, ok := c.tableNames[name]; !ok {
		return false
	}
	delete(c.tableNames, name)
	return true
}

func (c *TableCatalog) GetTableByName(name string) (*TableMetadata, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	meta, ok := c.tableNames[name]
	if !ok {
		return nil, newTableNotFound(name)
	}
	return meta, nil
}

func (c *TableCatalog) GetSchema(tableName string) (*arrow.Schema, error) {
	meta, err := c.GetTableByName(tableName)
	if err != nil {
		return nil, err
	}
	return meta.Schema(), nil
}

func (c *TableCatalog) LocateTable(tableName string) (TableLocation, error) {
	meta, err := c.GetTableByName(tableName)
	if err != nil {
		return TableLocation{}, err
	}
	if !meta.HasData() {
		return TableLocation{}, errors.Errorf("Catalog Error: Table with name %s has no data", tableName)
	}
	return meta.Location(), nil
}

// TableNames returns registered table names in ascending order.
func (c *TableCatalog) TableNames() []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	names := maps.Keys(c.tableNames)
	slices.Sort(names)
	return names
}
