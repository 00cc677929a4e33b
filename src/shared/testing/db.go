package testing

import (
	. "github.com/onsi/gomega"
	"github.com/veedubyou/stem-separator/src/shared/config"
	"github.com/veedubyou/stem-separator/src/shared/config/dev"
	"github.com/veedubyou/stem-separator/src/shared/lib/dynamo"
)

const (
	TimelinesTable = "Timelines"
)

type timeline struct {
	ID string `dynamo:"id,hash"`
}

func DynamoConfig(region string) config.LocalDynamo {
	localDynamo := dev.DynamoConfig
	localDynamo.Region = region
	return localDynamo
}

func MakeTestDB(testRegion string) dynamolib.DynamoDBWrapper {
	return dynamolib.Connect(DynamoConfig(testRegion))
}

func ResetDB(db dynamolib.DynamoDBWrapper) {
	DeleteAllTables(db)
	CreateAllTables(db)
}

func BeforeSuiteDB(testRegion string) dynamolib.DynamoDBWrapper {
	db := MakeTestDB(testRegion)
	DeleteAllTables(db)
	return db
}

func AfterSuiteDB(db dynamolib.DynamoDBWrapper) {
	DeleteAllTables(db)
}

func CreateAllTables(db dynamolib.DynamoDBWrapper) {
	err := db.CreateTable(TimelinesTable, timeline{}).Run()
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
}

func DeleteAllTables(db dynamolib.DynamoDBWrapper) {
	tableResults := db.ListTables()
	tableNames := ExpectSuccess(tableResults.All())

	for _, tableName := range tableNames {
		err := db.Table(tableName).DeleteTable().Run()
		ExpectWithOffset(1, err).NotTo(HaveOccurred())
	}
}
