package dynamolib

import (
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/cockroachdb/errors"
	"github.com/guregu/dynamo"
)

var encoder = dynamodbattribute.NewEncoder(func(e *dynamodbattribute.Encoder) {
	e.MarshalOptions.EnableEmptyCollections = true
	e.NullEmptyString = false
	e.NullEmptyByteSlice = false
})

// putMap keeps empty strings and collections, which the default
// dynamo encoder would otherwise drop from clip documents
type putMap map[string]any

func (p putMap) MarshalDynamo() (*dynamodb.AttributeValue, error) {
	var fields map[string]any = p
	return encoder.Encode(fields)
}

func NewDynamoDBWrapper(db *dynamo.DB) DynamoDBWrapper {
	return DynamoDBWrapper{DB: db}
}

type DynamoDBWrapper struct {
	*dynamo.DB
}

type DynamoTableWrapper struct {
	dynamo.Table
}

func (d DynamoDBWrapper) Table(tableName string) DynamoTableWrapper {
	return DynamoTableWrapper{
		Table: d.DB.Table(tableName),
	}
}

func (d DynamoTableWrapper) Put(input map[string]any) *dynamo.Put {
	return d.Table.Put(putMap(input))
}

func ValidateStringField(item map[string]*dynamodb.AttributeValue, key string) error {
	attr, ok := item[key]
	if !ok || attr == nil {
		return errors.Newf("Field %s is missing from the dynamo item", key)
	}

	if attr.S == nil || *attr.S == "" {
		return errors.Newf("Field %s is not a non-empty string", key)
	}

	return nil
}
